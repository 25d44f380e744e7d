// internal/docgen/render/renderer.go
package render

import (
	"bytes"
	"fmt"
	"strings"

	"loandoc-workers/internal/models"
)

// Renderer converts a document tree into a byte payload.
type Renderer interface {
	Render(tree *models.DocumentTree) []byte
}

// TextRenderer produces a plain-text rendering of a document tree. Rendering
// is synchronous and total for any well-formed tree.
type TextRenderer struct{}

func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) Render(tree *models.DocumentTree) []byte {
	var buf bytes.Buffer

	title := strings.ToUpper(tree.Title)
	buf.WriteString(title + "\n")
	buf.WriteString(strings.Repeat("=", len(title)) + "\n")
	if tree.Subtitle != "" {
		buf.WriteString(tree.Subtitle + "\n")
	}
	buf.WriteString("\n")

	for i, sec := range tree.Sections {
		if sec.Heading != "" {
			fmt.Fprintf(&buf, "%d. %s\n", i+1, sec.Heading)
		}
		for _, p := range sec.Paragraphs {
			buf.WriteString(p + "\n")
		}
		for j, item := range sec.Items {
			fmt.Fprintf(&buf, "  %d.%d %s\n", i+1, j+1, item)
		}
		if sec.Table != nil {
			buf.WriteString(strings.Join(sec.Table.Header, " | ") + "\n")
			for _, row := range sec.Table.Rows {
				buf.WriteString(strings.Join(row, " | ") + "\n")
			}
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}
