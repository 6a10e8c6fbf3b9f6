package rsvp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// ErrMalformedPayload wraps every decoding failure of a submission body.
var ErrMalformedPayload = errors.New("malformed payload")

// Payload is the body posted by the invitation page.
type Payload struct {
	Attendance string               `json:"attendance"`
	Answers    map[string]Selection `json:"answers"`
	Note       string               `json:"note"`
}

// Selection is an answer value: a string, a list of scalars or null.
type Selection struct {
	Values []string
	IsList bool
}

// Single returns a one-value selection.
func Single(v string) Selection {
	return Selection{Values: []string{v}}
}

// List returns a list selection.
func List(vs ...string) Selection {
	return Selection{Values: vs, IsList: true}
}

func (s *Selection) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty answer value")
	}

	switch data[0] {
	case 'n':
		*s = Selection{}
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		values := make([]string, 0, len(raw))
		for _, item := range raw {
			v, err := scalarString(item)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		*s = Selection{Values: values, IsList: true}
		return nil
	default:
		v, err := scalarString(data)
		if err != nil {
			return err
		}
		*s = Single(v)
		return nil
	}
}

// scalarString renders a JSON string, number, bool or null as text.
func scalarString(data json.RawMessage) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return "", fmt.Errorf("empty answer value")
	}
	switch data[0] {
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return "", err
		}
		return v, nil
	case '{', '[':
		return "", fmt.Errorf("unsupported answer value %s", data)
	case 'n':
		return "", nil
	default:
		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			return "", err
		}
		switch v.(type) {
		case float64, bool:
			return string(data), nil
		}
		return "", fmt.Errorf("unsupported answer value %s", data)
	}
}

// DecodePayload parses a submission body. The body must be one UTF-8 JSON
// object with nothing after it. Any failure is reported as ErrMalformedPayload.
func DecodePayload(r io.Reader) (*Payload, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if !utf8.Valid(body) {
		return nil, fmt.Errorf("%w: body is not valid UTF-8", ErrMalformedPayload)
	}

	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return &p, nil
}
