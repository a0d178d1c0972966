package contact

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PhoneTag is the validator tag for Indonesian mobile numbers.
const PhoneTag = "idphone"

var phonePattern = regexp.MustCompile(`^(\+62|0)8[1-9][0-9]{7,10}$`)

// ValidPhone reports whether s is a mobile number written as 08… or +628….
func ValidPhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// NormalizePhone validates raw and rewrites it to the 62… form WhatsApp
// expects: a leading 0 becomes 62, a leading + is dropped.
func NormalizePhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if !phonePattern.MatchString(phone) {
		return "", &ValidationError{Message: MsgPhoneFormat}
	}
	if strings.HasPrefix(phone, "0") {
		return "62" + phone[1:], nil
	}
	return strings.TrimPrefix(phone, "+"), nil
}

// RegisterValidation adds the idphone tag to v.
func RegisterValidation(v *validator.Validate) error {
	return v.RegisterValidation(PhoneTag, func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String())
	})
}
