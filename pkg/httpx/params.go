package httpx

import (
	"net/url"
	"strings"
)

// ParamCheck is the result of validating a form against a required field
// list. It either holds the values (OK) or the names of the missing fields,
// so callers branch explicitly instead of raising mid-handler.
type ParamCheck struct {
	values  url.Values
	Missing []string
}

// CheckParams validates that every required field is present and non-blank in
// the form. The check is pure: it never writes a response.
func CheckParams(form url.Values, required ...string) ParamCheck {
	c := ParamCheck{values: form}
	for _, name := range required {
		if strings.TrimSpace(form.Get(name)) == "" {
			c.Missing = append(c.Missing, name)
		}
	}
	return c
}

// OK reports whether all required fields were present.
func (c ParamCheck) OK() bool { return len(c.Missing) == 0 }

// Get returns the trimmed value of a field.
func (c ParamCheck) Get(name string) string {
	return strings.TrimSpace(c.values.Get(name))
}

// MissingMessage renders the standard missing-parameter message.
func (c ParamCheck) MissingMessage() string {
	return "You are missing the following parameters: " + strings.Join(c.Missing, ", ")
}
