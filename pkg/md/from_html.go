package md

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Placeholders mark where restored directives go after HTML conversion.
// The format contains no markdown punctuation so it survives unchanged.
const (
	blockPlaceholderPrefix = "JDIVBLOCK"
	blockPlaceholderSuffix = "END"
)

// jinjaDivPattern matches the container the structured visitor emits.
var jinjaDivPattern = regexp.MustCompile(`(?s)<div class="` + BaseTag + `(?: ([^"]*))?"(?: id="([^"]*)")?>\{\{ (.*?) \}\}(.*?)</div>`)

// FromHTML converts HTML to markdown, turning every rendered jinja_div
// container back into a `:::jinja_div` block.
func FromHTML(input string) (string, error) {
	if input == "" {
		return "", nil
	}

	var blocks []string
	var convErr error
	processed := jinjaDivPattern.ReplaceAllStringFunc(input, func(match string) string {
		m := jinjaDivPattern.FindStringSubmatch(match)
		block, err := restoreDirective(m[1], m[2], m[3], m[4])
		if err != nil && convErr == nil {
			convErr = err
		}
		placeholder := blockPlaceholderPrefix + strconv.Itoa(len(blocks)) + blockPlaceholderSuffix
		blocks = append(blocks, block)
		return "<p>" + placeholder + "</p>"
	})
	if convErr != nil {
		return "", convErr
	}

	markdown, err := htmltomarkdown.ConvertString(processed)
	if err != nil {
		return "", err
	}

	for i, block := range blocks {
		placeholder := blockPlaceholderPrefix + strconv.Itoa(i) + blockPlaceholderSuffix
		markdown = strings.Replace(markdown, placeholder, block, 1)
	}

	return strings.TrimSpace(markdown), nil
}

// restoreDirective writes the markdown source of one jinja_div.
func restoreDirective(class, id, expr, inner string) (string, error) {
	var sb strings.Builder
	sb.WriteString(":::" + DirectiveName)
	if id != "" {
		sb.WriteString(" " + html.UnescapeString(id))
	}
	sb.WriteString("\n")
	if class != "" {
		sb.WriteString(":class: " + html.UnescapeString(class) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(expr)
	sb.WriteString("\n")

	if strings.TrimSpace(inner) != "" {
		body, err := htmltomarkdown.ConvertString(inner)
		if err != nil {
			return "", fmt.Errorf("convert %s body: %w", DirectiveName, err)
		}
		if body = strings.TrimSpace(body); body != "" {
			sb.WriteString("\n" + body + "\n")
		}
	}

	sb.WriteString(":::")
	return sb.String(), nil
}
