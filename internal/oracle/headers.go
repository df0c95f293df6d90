package oracle

import (
	"slices"
	"sort"
	"strings"

	"github.com/usestring/harcheck/pkg/contenttype"
)

// foldHeaders groups header values by lower-cased name. Differently cased
// spellings of one header keep all their values.
func foldHeaders(headers map[string]string) map[string][]string {
	out := make(map[string][]string, len(headers))
	for name, value := range headers {
		lname := strings.ToLower(name)
		out[lname] = append(out[lname], strings.TrimSpace(value))
	}
	return out
}

// lookupHeader returns the value of a header by case-insensitive name.
func lookupHeader(headers map[string]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// checkHeaders requires every expected header in actual. Values must match
// unless the header is ignored; content-type compares media types only.
func (v *Validator) checkHeaders(actual, expected map[string]string) []string {
	have := foldHeaders(actual)
	want := foldHeaders(expected)

	names := make([]string, 0, len(want))
	for name := range want {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []string
	for _, name := range names {
		values, ok := have[name]
		if !ok {
			errs = append(errs, v.printer.Sprintf("header %s: missing", name))
			continue
		}
		if _, skip := v.ignore[name]; skip {
			continue
		}

		for _, expectedValue := range want[name] {
			if !headerValueMatches(name, expectedValue, values) {
				errs = append(errs, v.printer.Sprintf("header %s: expected %q, got %q",
					name, expectedValue, strings.Join(values, ", ")))
			}
		}
	}
	return errs
}

func headerValueMatches(name, expected string, actual []string) bool {
	if name == "content-type" {
		return slices.ContainsFunc(actual, func(a string) bool {
			return contenttype.SameMediaType(expected, a)
		})
	}
	return slices.Contains(actual, expected)
}
