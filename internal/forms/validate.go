// Package forms holds the input schemas of the dashboard and CLI and the
// validate-then-save submission flow.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phonePattern accepts digits with optional hyphens and a leading +.
var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9-]{5,19}$`)

// FieldErrors maps a field's JSON name (dotted for nested fields) to its
// first validation message.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := fe.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failing field names, sorted.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Get returns the message for field, or "".
func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	v.RegisterStructValidation(userRules, UserForm{})
	v.RegisterStructValidation(csvRules, CSVUpload{})
	return v
}

// defaultMessages are used when a field has no msg tag for the failed rule.
var defaultMessages = map[string]string{
	"required":          "This field is required",
	"email":             "Invalid email address",
	"phone":             "Invalid phone number format",
	"len":               "Must be exactly %s chars",
	"min":               "Must be at least %s chars",
	"max":               "Must be at most %s chars",
	"gt":                "Must be greater than %s",
	"gte":               "Must be at least %s",
	"oneof":             "Must be one of: %s",
	"datetime":          "Invalid date",
	"numeric":           "Must be a number",
	"dive":              "Invalid value",
	"customer_required": "Customer ID is required when role is customer",
	"password_required": "Password must be at least 4 chars",
	"csv":               "File must be a CSV",
	"too_large":         "File is too large",
}

// Validate trims every string field of form (a pointer to a struct), then
// checks its validate tags. It returns nil when the form is valid.
func Validate(form any) FieldErrors {
	rv := reflect.ValueOf(form)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("forms.Validate: want pointer to struct, got %T", form))
	}
	trimStrings(rv.Elem())

	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"": err.Error()}
	}

	root := rv.Elem().Type()
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe.Namespace())
		if _, seen := out[key]; seen {
			continue
		}
		out[key] = message(root, fe)
	}
	return out
}

// fieldKey drops the leading struct name from a validator namespace.
func fieldKey(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}

func message(root reflect.Type, fe validator.FieldError) string {
	if sf, ok := lookupField(root, fieldKey(fe.StructNamespace())); ok {
		if msg, ok := parseMsgTag(sf.Tag.Get("msg"), fe.Tag()); ok {
			return msg
		}
	}
	tmpl, ok := defaultMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}

// lookupField walks a struct namespace such as "Items[0].SizeID".
func lookupField(t reflect.Type, path string) (reflect.StructField, bool) {
	var sf reflect.StructField
	for _, part := range strings.Split(path, ".") {
		if i := strings.IndexByte(part, '['); i >= 0 {
			part = part[:i]
		}
		for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return sf, false
		}
		f, ok := t.FieldByName(part)
		if !ok {
			return sf, false
		}
		sf, t = f, f.Type
	}
	return sf, true
}

// parseMsgTag reads a msg struct tag. "text" applies to every rule;
// "rule:text;rule:text" applies per rule.
func parseMsgTag(tag, rule string) (string, bool) {
	if tag == "" {
		return "", false
	}
	if !strings.Contains(tag, ":") {
		return tag, true
	}
	for _, entry := range strings.Split(tag, ";") {
		r, text, ok := strings.Cut(entry, ":")
		if ok && strings.TrimSpace(r) == rule {
			return strings.TrimSpace(text), true
		}
	}
	return "", false
}

func trimStrings(v reflect.Value) {
	switch v.Kind() {
	case reflect.Pointer:
		if !v.IsNil() {
			trimStrings(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				trimStrings(v.Field(i))
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			trimStrings(v.Index(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(strings.TrimSpace(v.String()))
		}
	}
}
