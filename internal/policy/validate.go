// Package policy validates incident-response policy files against the
// platform schema. Documents arrive as generic decoded YAML values and may
// be any shape; validators report violations as message strings rather
// than rejecting input up front.
package policy

import "fmt"

// requiredKeys are checked in this order; each missing key reports once.
var requiredKeys = []string{"name", "version", "rules"}

// ruleFields every rule entry must carry.
var ruleFields = []string{"id", "description", "severity"}

// validSeverities for rule entries. Matching is case-sensitive.
var validSeverities = map[string]bool{
	"low":      true,
	"medium":   true,
	"high":     true,
	"critical": true,
}

// validTypes for the optional top-level policy type.
var validTypes = map[string]bool{
	"security":      true,
	"compliance":    true,
	"performance":   true,
	"observability": true,
}

// ValidateStructure checks schema shape: required top-level keys, key types,
// and the shape of each rule entry. All violations are accumulated so the
// caller gets the complete list in one pass. A document that is not a
// mapping at all reports every required key as missing.
func ValidateStructure(document any, filename string) []string {
	var errs []string

	doc, ok := asMapping(document)
	if !ok {
		for _, key := range requiredKeys {
			errs = append(errs, fmt.Sprintf("%s: Missing required key '%s'", filename, key))
		}
		return errs
	}

	for _, key := range requiredKeys {
		if _, present := doc[key]; !present {
			errs = append(errs, fmt.Sprintf("%s: Missing required key '%s'", filename, key))
		}
	}

	if v, present := doc["name"]; present {
		if _, isString := v.(string); !isString {
			errs = append(errs, fmt.Sprintf("%s: 'name' must be a string", filename))
		}
	}

	if v, present := doc["version"]; present {
		if _, isString := v.(string); !isString {
			errs = append(errs, fmt.Sprintf("%s: 'version' must be a string", filename))
		}
	}

	if v, present := doc["rules"]; present {
		rules, isList := v.([]any)
		if !isList {
			errs = append(errs, fmt.Sprintf("%s: 'rules' must be a list", filename))
			return errs
		}
		for i, entry := range rules {
			errs = append(errs, validateRule(entry, i, filename)...)
		}
	}

	return errs
}

// validateRule checks one rule entry at index i. A non-mapping entry yields
// a single error; otherwise each missing field reports independently, and a
// present severity is checked against the enumeration instead.
func validateRule(entry any, i int, filename string) []string {
	rule, isMap := asMapping(entry)
	if !isMap {
		return []string{fmt.Sprintf("%s: Rule %d must be a dictionary", filename, i)}
	}

	var errs []string
	for _, field := range ruleFields {
		v, present := rule[field]
		if !present {
			errs = append(errs, fmt.Sprintf("%s: Rule %d missing '%s' field", filename, i, field))
			continue
		}
		if field == "severity" {
			if s, isString := v.(string); !isString || !validSeverities[s] {
				errs = append(errs, fmt.Sprintf("%s: Rule %d invalid severity '%v'", filename, i, v))
			}
		}
	}
	return errs
}

// ValidateContent checks semantic constraints. Unlike structural validation
// it short-circuits on its first two checks: an empty or non-mapping
// document has nothing further worth reporting.
func ValidateContent(document any, filename string) []string {
	if isEmptyDocument(document) {
		return []string{fmt.Sprintf("%s: Policy file is empty", filename)}
	}

	doc, ok := asMapping(document)
	if !ok {
		return []string{fmt.Sprintf("%s: Policy must be a YAML object", filename)}
	}

	var errs []string
	if v, present := doc["type"]; present {
		if s, isString := v.(string); !isString || !validTypes[s] {
			errs = append(errs, fmt.Sprintf("%s: Invalid policy type '%v'", filename, v))
		}
	}
	return errs
}

// asMapping returns a string-keyed view of a decoded YAML mapping. yaml.v3
// decodes a mapping holding any non-string key as map[any]any; its string
// keys are still lookable, so such a document validates like any other
// mapping. Non-string keys can never match a schema key and are dropped.
func asMapping(document any) (map[string]any, bool) {
	switch m := document.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		doc := make(map[string]any, len(m))
		for k, v := range m {
			if s, ok := k.(string); ok {
				doc[s] = v
			}
		}
		return doc, true
	default:
		return nil, false
	}
}

// isEmptyDocument reports whether a decoded value carries no content:
// null, an empty mapping or sequence, the empty string, false, or zero.
func isEmptyDocument(document any) bool {
	switch v := document.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case map[any]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	case float64:
		return v == 0
	default:
		return false
	}
}
