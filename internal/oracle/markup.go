package oracle

import (
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
)

// checkXML compares two XML documents by element structure, attributes and
// text, ignoring formatting whitespace, comments and attribute order. ok is
// false when either side is not a single-rooted XML document.
func (v *Validator) checkXML(body, want string) (errs []string, ok bool) {
	expected, ok := canonicalXML(want)
	if !ok {
		return nil, false
	}
	actual, ok := canonicalXML(body)
	if !ok {
		return []string{v.printer.Sprintf("body: expected an XML document, got %q", truncate(body))}, true
	}
	if actual != expected {
		return []string{v.printer.Sprintf("body: expected XML %s, got %s", truncate(expected), truncate(actual))}, true
	}
	return nil, true
}

// checkHTML compares the visible text of two HTML documents with runs of
// whitespace collapsed. Markup differences alone do not fail an entry.
func (v *Validator) checkHTML(body, want string) (errs []string, ok bool) {
	expected, ok := htmlText(want)
	if !ok {
		return nil, false
	}
	actual, ok := htmlText(body)
	if !ok {
		return nil, false
	}
	if actual != expected {
		return []string{v.printer.Sprintf("body: expected HTML text %q, got %q", truncate(expected), truncate(actual))}, true
	}
	return nil, true
}

func canonicalXML(s string) (string, bool) {
	doc, err := xmlquery.Parse(strings.NewReader(s))
	if err != nil {
		return "", false
	}

	roots := 0
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			roots++
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(c.Data) != "" {
				return "", false
			}
		}
	}
	if roots != 1 {
		return "", false
	}

	var b strings.Builder
	writeXML(&b, doc)
	return b.String(), true
}

func writeXML(b *strings.Builder, n *xmlquery.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			name := qualified(c.Prefix, c.Data)
			b.WriteString("<" + name)
			attrs := make([]string, 0, len(c.Attr))
			for _, a := range c.Attr {
				attrs = append(attrs, qualified(a.Name.Space, a.Name.Local)+"="+`"`+a.Value+`"`)
			}
			slices.Sort(attrs)
			for _, a := range attrs {
				b.WriteString(" " + a)
			}
			b.WriteString(">")
			writeXML(b, c)
			b.WriteString("</" + name + ">")
		case xmlquery.TextNode, xmlquery.CharDataNode:
			b.WriteString(collapse(c.Data))
		}
	}
}

func qualified(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

func htmlText(s string) (string, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", false
	}
	return collapse(doc.Text()), true
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
