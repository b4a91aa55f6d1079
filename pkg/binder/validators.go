package binder

import (
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var handleRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// httpURLValidator accepts absolute http and https URLs. The empty string is
// allowed so that optional fields can be cleared; add `required` when it
// isn't.
func httpURLValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// handleValidator accepts login identifiers: letters, digits, dots,
// underscores and dashes, starting with a letter or digit.
func handleValidator(fl validator.FieldLevel) bool {
	return handleRE.MatchString(fl.Field().String())
}
