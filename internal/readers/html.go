package readers

import (
	"html"
	"regexp"
	"strings"
)

// Ensure HTML implements the interface.
var _ Reader = (*HTML)(nil)

// HTML strips markup and extracts the readable text of a document.
type HTML struct{}

// NewHTML creates an HTML reader.
func NewHTML() *HTML {
	return &HTML{}
}

// Extensions returns the extensions handled.
func (h *HTML) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

var (
	htmlTitleTag      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	htmlScriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	htmlStyleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlNoscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	htmlHeadTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlSvgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	htmlOpenBlocks    = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	htmlCloseBlocks   = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	htmlBrTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	htmlHrTags        = regexp.MustCompile(`(?i)<hr\s*/?>`)
	htmlAllTags       = regexp.MustCompile(`<[^>]+>`)
	htmlMultiSpaces   = regexp.MustCompile(`[ \t]+`)
	htmlMultiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Extract strips tags and takes the title from the <title> element,
// falling back to the filename. The <head>, scripts, styles, and SVG
// are dropped entirely before text extraction.
func (h *HTML) Extract(path string, data []byte) (*Extracted, error) {
	content := string(data)

	title := titleFromFilename(path)
	if matches := htmlTitleTag.FindStringSubmatch(content); len(matches) > 1 {
		if t := strings.TrimSpace(html.UnescapeString(matches[1])); t != "" {
			title = t
		}
	}

	content = htmlScriptTag.ReplaceAllString(content, "")
	content = htmlStyleTag.ReplaceAllString(content, "")
	content = htmlNoscriptTag.ReplaceAllString(content, "")
	content = htmlHeadTag.ReplaceAllString(content, "")
	content = htmlSvgTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Block boundaries become newlines so sentences from adjacent
	// elements do not run together.
	content = htmlOpenBlocks.ReplaceAllString(content, "\n")
	content = htmlCloseBlocks.ReplaceAllString(content, "\n")
	content = htmlBrTags.ReplaceAllString(content, "\n")
	content = htmlHrTags.ReplaceAllString(content, "\n")
	content = htmlAllTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	content = htmlMultiSpaces.ReplaceAllString(content, " ")
	content = htmlMultiNewlines.ReplaceAllString(content, "\n\n")

	lines := strings.Split(content, "\n")
	var kept []string
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}

	return &Extracted{
		Text:   strings.Join(kept, "\n"),
		Title:  title,
		Format: "html",
	}, nil
}
