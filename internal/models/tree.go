// internal/models/tree.go
package models

// DocumentTree is the renderer-independent structured form of one document.
// Builders produce it from deal data and prose; the renderer turns it into a
// byte payload without consulting either again.
type DocumentTree struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Sections []TreeSection `json:"sections"`
}

// TreeSection is one titled block of a document tree. A section carries
// paragraphs, list items, an optional table, or any combination.
type TreeSection struct {
	Heading    string    `json:"heading,omitempty"`
	Paragraphs []string  `json:"paragraphs,omitempty"`
	Items      []string  `json:"items,omitempty"`
	Table      *TreeTable `json:"table,omitempty"`
}

// TreeTable is a simple header-plus-rows table.
type TreeTable struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}
