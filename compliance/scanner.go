package compliance

import (
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// Scanner detects fixed-interest and guaranteed-return clauses in investment terms.
type Scanner struct {
	keys    []string
	phrases []string
}

// NewScanner copies the forbidden keys and phrases out of the policy.
func NewScanner(p Policy) *Scanner {
	p = p.WithDefaults()
	s := &Scanner{
		keys:    append([]string(nil), p.ForbiddenKeys...),
		phrases: make([]string, 0, len(p.ForbiddenPhrases)),
	}
	for _, ph := range p.ForbiddenPhrases {
		s.phrases = append(s.phrases, strings.ToLower(ph))
	}
	return s
}

// HasProhibitedTerms reports whether terms carry a forbidden key with a value,
// or whether their serialized, lower-cased form contains a forbidden phrase.
// The phrase scan is a blunt substring match and flags benign text such as
// "interested party" as well.
func (s *Scanner) HasProhibitedTerms(terms any) bool {
	if terms == nil {
		return false
	}
	if obj, ok := AsTerms(terms); ok {
		for _, k := range s.keys {
			if v, present := obj[k]; present && v != nil {
				return true
			}
		}
	}
	text := strings.ToLower(serialize(terms))
	for _, ph := range s.phrases {
		if strings.Contains(text, ph) {
			return true
		}
	}
	return false
}

func serialize(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// AsTerms unwraps the map shapes terms arrive in: decoded JSON bodies and stored JSON columns.
func AsTerms(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	case datatypes.JSONMap:
		return map[string]any(m), m != nil
	}
	return nil, false
}
