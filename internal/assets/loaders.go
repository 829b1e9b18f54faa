package assets

import (
	"encoding/json"
	"fmt"
	"regexp"
)

var (
	cssClassPattern = regexp.MustCompile(`\.(-?[_a-zA-Z][_a-zA-Z0-9-]*)`)
	cssIDPattern    = regexp.MustCompile(`#(-?[_a-zA-Z][_a-zA-Z0-9-]*)`)
	htmlIDPattern   = regexp.MustCompile(`\bid\s*=\s*["']([^"']+)["']`)
	htmlClassPattern = regexp.MustCompile(`\bclass\s*=\s*["']([^"']+)["']`)
)

// ParseCSS extracts every class and id selector mentioned in a stylesheet.
// It is a scan, not a full CSS parser: the validator only needs the set of
// names that exist, not the rule bodies.
func ParseCSS(source string) CSSMetadata {
	m := CSSMetadata{Classes: map[string]bool{}, IDs: map[string]bool{}}
	for _, match := range cssClassPattern.FindAllStringSubmatch(source, -1) {
		m.Classes[match[1]] = true
	}
	for _, match := range cssIDPattern.FindAllStringSubmatch(source, -1) {
		m.IDs[match[1]] = true
	}
	return m
}

// ValidSelectorSyntax does a structural sanity check -- balanced brackets
// and string quotes -- as described by the validator's CSS selector rule.
// It deliberately does not validate that the selector matches any known
// grammar production; that would require a full CSS parser the spec does
// not ask for.
func ValidSelectorSyntax(selector string) bool {
	depth := 0
	inSingle, inDouble := false, false
	for _, r := range selector {
		switch {
		case r == '\'' && !inDouble:
			inSingle = !inSingle
		case r == '"' && !inSingle:
			inDouble = !inDouble
		case inSingle || inDouble:
			continue
		case r == '[':
			depth++
		case r == ']':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0 && !inSingle && !inDouble
}

// ParseHTML extracts every element id and class attribute value. Like
// ParseCSS this is a scan rather than a DOM parse; the layout validator
// only needs existence, not structure.
func ParseHTML(source string) HTMLMetadata {
	m := HTMLMetadata{ElementIDs: map[string]bool{}, Classes: map[string]bool{}, Content: source}
	for _, match := range htmlIDPattern.FindAllStringSubmatch(source, -1) {
		m.ElementIDs[match[1]] = true
	}
	for _, match := range htmlClassPattern.FindAllStringSubmatch(source, -1) {
		for _, class := range splitClassList(match[1]) {
			m.Classes[class] = true
		}
	}
	return m
}

func splitClassList(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' || r == '\t' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// ParseLocalesJSON decodes a locales file shaped as
//
//	{ "dotted.key": { "en-US": "text", "nl-NL": "tekst" } }
//
// into a LocalesMetadata. Decoding arbitrary nested JSON into a generic map
// is exactly what encoding/json is for; none of the corpus's schema
// validators (santhosh-tekuri/jsonschema) replace a plain decode step, so
// the standard library is used here without a third-party substitute.
func ParseLocalesJSON(source string) (LocalesMetadata, error) {
	var raw map[string]map[string]string
	if err := json.Unmarshal([]byte(source), &raw); err != nil {
		return LocalesMetadata{}, fmt.Errorf("invalid locales file: %w", err)
	}
	m := LocalesMetadata{Keys: map[string]map[string]bool{}}
	for key, byLocale := range raw {
		set := map[string]bool{}
		for locale := range byLocale {
			set[locale] = true
		}
		m.Keys[key] = set
	}
	return m, nil
}
