package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used for numbers written without a country code.
const DefaultRegion = "UA"

// NormalizePhoneNumber normalizes a phone number to E.164 format.
// Numbers without a country code are read as numbers of region
// (DefaultRegion when empty).
func NormalizePhoneNumber(phone, region string) (string, error) {
	phone = strings.TrimSpace(phone)
	if region == "" {
		region = DefaultRegion
	}

	num, err := phonenumbers.Parse(phone, strings.ToUpper(region))
	if err != nil {
		return "", err
	}

	if !phonenumbers.IsValidNumber(num) {
		return "", phonenumbers.ErrNotANumber
	}

	// e.g. +380671234567
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// NormalizeOptionalPhone is NormalizePhoneNumber for optional form fields:
// a blank input stays blank.
func NormalizeOptionalPhone(phone, region string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", nil
	}
	return NormalizePhoneNumber(phone, region)
}
