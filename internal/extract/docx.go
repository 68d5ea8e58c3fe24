package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	paragraphEndRe = regexp.MustCompile(`</w:p>`)
	tabRe          = regexp.MustCompile(`<w:tab/>`)
	xmlTagRe       = regexp.MustCompile(`<[^>]+>`)
)

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()
	return documentXMLText(doc.Editable().GetContent()), nil
}

// documentXMLText reduces WordprocessingML to text, one line per paragraph.
func documentXMLText(xml string) string {
	s := paragraphEndRe.ReplaceAllString(xml, "\n")
	s = tabRe.ReplaceAllString(s, " ")
	s = xmlTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
