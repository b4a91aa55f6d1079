package htmlutil

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var multipleSpacesPattern = regexp.MustCompile(`[ \t\r\f\v]{2,}`)

// blockElements end a line of text when they open or close.
var blockElements = map[atom.Atom]bool{
	atom.Address:    true,
	atom.Article:    true,
	atom.Blockquote: true,
	atom.Br:         true,
	atom.Div:        true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Hr:         true,
	atom.Li:         true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Section:    true,
	atom.Tr:         true,
}

// skippedElements have content that is never shown as text.
var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
}

// StripTags removes all HTML from s and returns the visible text. Block-level
// elements become line breaks, entities are decoded, and runs of whitespace
// are collapsed. Empty lines are dropped.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return normalize(s)
	}

	var sb strings.Builder
	skipping := 0
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF is the only error a strings.Reader can produce.
			return normalize(sb.String())
		case html.TextToken:
			if skipping == 0 {
				sb.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			a := atom.Lookup(name)
			if skippedElements[a] {
				switch tt {
				case html.StartTagToken:
					skipping++
				case html.EndTagToken:
					if skipping > 0 {
						skipping--
					}
				}
				continue
			}
			if blockElements[a] {
				sb.WriteByte('\n')
			}
		case html.CommentToken, html.DoctypeToken:
		}
	}
}

func normalize(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	lines := strings.Split(s, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(multipleSpacesPattern.ReplaceAllString(line, " "))
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
