package utils

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Minimal tag validator for request bodies. Supports:
// - required
// - uuid (when non-empty)
// - max=N (string length in bytes)
// - dive (validate a nested struct field)

// ValidateStruct inspects struct tags `validate:"..."` and returns the first error encountered.
func ValidateStruct(s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.New("ValidateStruct expects a struct or pointer to struct")
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		fv := v.Field(i)
		name := jsonName(field)
		var sval string
		if fv.Kind() == reflect.String {
			sval = fv.String()
		}
		for _, p := range strings.Split(tag, ",") {
			p = strings.TrimSpace(p)
			switch {
			case p == "required":
				if sval == "" {
					return errors.New(name + " is required")
				}
			case p == "uuid":
				if sval != "" {
					if _, err := uuid.Parse(sval); err != nil {
						return errors.New(name + " must be a UUID")
					}
				}
			case strings.HasPrefix(p, "max="):
				n, err := strconv.Atoi(strings.TrimPrefix(p, "max="))
				if err == nil && len(sval) > n {
					return errors.New(name + " must be at most " + strconv.Itoa(n) + " characters")
				}
			case p == "dive":
				if fv.Kind() == reflect.Struct {
					if err := ValidateStruct(fv.Interface()); err != nil {
						return errors.New(name + "." + err.Error())
					}
				}
			}
		}
	}
	return nil
}

func jsonName(f reflect.StructField) string {
	if tag := f.Tag.Get("json"); tag != "" {
		if n := strings.Split(tag, ",")[0]; n != "" && n != "-" {
			return n
		}
	}
	return f.Name
}
