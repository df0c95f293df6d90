package oracle

import (
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/usestring/harcheck/internal/cache"
	"github.com/usestring/harcheck/internal/schema"
	"github.com/usestring/harcheck/pkg/contenttype"
)

// checkBody applies the first body rule that fits the expected message:
// explicit schema, empty body (anything goes), JSON example, form example,
// XML or HTML example, then plain text. Only a schema that cannot be compiled returns an error.
func (v *Validator) checkBody(actual, expected Message) ([]string, error) {
	if expected.Schema != "" {
		return v.checkSchema(actual.Body, expected.Schema)
	}

	want := strings.TrimSpace(expected.Body)
	if want == "" {
		return nil, nil
	}

	contentType := lookupHeader(expected.Headers, "content-type")
	if contentType == "" {
		contentType = lookupHeader(actual.Headers, "content-type")
	}

	switch contenttype.Classify(contentType) {
	case contenttype.JSON, contenttype.Unknown:
		if sample, err := schema.ParseJSON([]byte(want)); err == nil {
			return v.checkSample(actual.Body, want, sample)
		}
	case contenttype.Form:
		if errs, ok := v.checkForm(actual.Body, want); ok {
			return errs, nil
		}
	case contenttype.XML:
		if errs, ok := v.checkXML(actual.Body, want); ok {
			return errs, nil
		}
	case contenttype.HTML:
		if errs, ok := v.checkHTML(actual.Body, want); ok {
			return errs, nil
		}
	}

	if strings.TrimSpace(actual.Body) != want {
		return []string{v.printer.Sprintf("body: expected %q, got %q", want, truncate(actual.Body))}, nil
	}
	return nil, nil
}

func (v *Validator) checkSchema(body, source string) ([]string, error) {
	validator, err := v.compile(cache.Key("schema", source), func() (*schema.Validator, error) {
		return schema.Compile([]byte(source))
	})
	if err != nil {
		return nil, err
	}
	return v.bodyErrors(validator.Validate([]byte(body))), nil
}

// checkSample validates body against the shape of an example document.
func (v *Validator) checkSample(body, source string, sample any) ([]string, error) {
	validator, err := v.compile(cache.Key("sample", source), func() (*schema.Validator, error) {
		return schema.FromSample(sample)
	})
	if err != nil {
		return nil, err
	}
	return v.bodyErrors(validator.Validate([]byte(body))), nil
}

// checkForm compares url-encoded bodies ignoring parameter order. ok is
// false when either side does not parse as a form.
func (v *Validator) checkForm(body, want string) (errs []string, ok bool) {
	expected, err := url.ParseQuery(want)
	if err != nil {
		return nil, false
	}
	actual, err := url.ParseQuery(strings.TrimSpace(body))
	if err != nil {
		return nil, false
	}
	if !maps.EqualFunc(expected, actual, slices.Equal[[]string]) {
		return []string{v.printer.Sprintf("body: expected form %q, got %q", want, truncate(body))}, true
	}
	return nil, true
}

func (v *Validator) bodyErrors(res *schema.Result) []string {
	if res.Valid {
		return nil
	}
	errs := make([]string, 0, len(res.Errors))
	for _, e := range res.Errors {
		errs = append(errs, v.printer.Sprintf("body: %s", e))
	}
	return errs
}

func truncate(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
