// Package normalize reshapes header record lists into name->value maps.
package normalize

import "github.com/usestring/harcheck/pkg/har"

// Headers builds a map from header name to value. Records are applied in
// order, so the last record for a name wins. Names are kept exactly as given;
// case-insensitive comparison is the validator's job. A nil list yields an
// empty, non-nil map.
func Headers(records har.Headers) map[string]string {
	out := make(map[string]string, len(records))
	for _, rec := range records {
		out[rec.HeaderName()] = rec.Value
	}
	return out
}
