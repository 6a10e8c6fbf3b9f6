package rsvp

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestDecodePayload(t *testing.T) {
	body := `{
		"attendance": "Так, з радістю буду!",
		"answers": {
			"Меню": ["Лосось", "Курятина"],
			"Трансфер": "Так",
			"Кількість": 2,
			"Змішане": ["Так", 3, true, null],
			"Порожнє": null
		},
		"note": " До зустрічі! "
	}`

	p, err := DecodePayload(strings.NewReader(body))
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}

	if p.Attendance != "Так, з радістю буду!" || p.Note != " До зустрічі! " {
		t.Errorf("unexpected scalars: %+v", p)
	}

	want := map[string]Selection{
		"Меню":      List("Лосось", "Курятина"),
		"Трансфер":  Single("Так"),
		"Кількість": Single("2"),
		"Змішане":   List("Так", "3", "true", ""),
		"Порожнє":   {},
	}
	if !reflect.DeepEqual(p.Answers, want) {
		t.Errorf("Answers = %#v, want %#v", p.Answers, want)
	}
}

func TestDecodePayloadMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `attendance=yes`},
		{"truncated", `{"answers": {"Меню": [`},
		{"object value", `{"answers": {"Меню": {"a": 1}}}`},
		{"nested list", `{"answers": {"Меню": [["Лосось"]]}}`},
		{"answers not an object", `{"answers": ["Лосось"]}`},
		{"attendance not a string", `{"attendance": 1}`},
		{"trailing garbage", `{"attendance":"Так","answers":{},"note":""} trailing garbage`},
		{"two objects", `{"attendance":"Так"}{"x":1}`},
		{"invalid utf-8", "{\"attendance\":\"\xff\xfe\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePayload(strings.NewReader(tt.body))
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("DecodePayload() error = %v, want ErrMalformedPayload", err)
			}
		})
	}
}

func TestDecodePayloadEmptyObject(t *testing.T) {
	p, err := DecodePayload(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("DecodePayload() error = %v", err)
	}
	if p.Attendance != "" || len(p.Answers) != 0 {
		t.Errorf("unexpected payload %+v", p)
	}
}
