package rules

import (
	"sort"
	"strings"
)

// Set is a case-folded set of tokens such as skills, certifications or
// drone capabilities.
type Set map[string]struct{}

// Tokens splits s on sep, trimming and lowercasing each part. Empty parts are
// dropped; empty input yields an empty set.
func Tokens(s, sep string) Set {
	out := Set{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, part := range strings.Split(s, sep) {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out[part] = struct{}{}
		}
	}
	return out
}

// TokenSet accepts either ';' or ',' as separator, including a mix of both.
// Every part is split on both, so "a;b" and "a, b" yield the same set.
func TokenSet(s string) Set {
	out := Set{}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' })
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out[part] = struct{}{}
		}
	}
	return out
}

func (s Set) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Minus returns the sorted tokens of s missing from other.
func (s Set) Minus(other Set) []string {
	var out []string
	for t := range s {
		if !other.Has(t) {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// Intersect returns the sorted tokens present in both sets.
func (s Set) Intersect(other Set) []string {
	var out []string
	for t := range s {
		if other.Has(t) {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// Satisfied reports whether have covers every required token, and returns the
// missing ones for diagnostics.
func Satisfied(required, have string) (bool, []string) {
	missing := TokenSet(required).Minus(TokenSet(have))
	return len(missing) == 0, missing
}

// LocationsMatch compares two locations ignoring case and surrounding space.
func LocationsMatch(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
