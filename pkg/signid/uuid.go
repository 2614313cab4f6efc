package signid

import "regexp"

// uuidRE matches RFC 4122 style identifiers with a version nibble of 1-5 and
// a variant nibble of 8, 9, a or b. The pattern is unanchored.
var uuidRE = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}`)

// ExtractUUID returns the leftmost UUID-shaped substring of s.
func ExtractUUID(s string) (string, bool) {
	m := uuidRE.FindString(s)
	if m == "" {
		return "", false
	}
	return m, true
}

// IsUUID reports whether s contains a UUID-shaped substring anywhere.
func IsUUID(s string) bool { return uuidRE.MatchString(s) }

func extractUUIDValue(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return ExtractUUID(s)
}
