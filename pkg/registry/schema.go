// pkg/registry/schema.go
package registry

// DocumentCatalog is the exported, serializable view of the document type
// registry, consumed by external editors and workflow tooling.
type DocumentCatalog struct {
	Version     string         `json:"version"`
	GeneratedAt string         `json:"generatedAt"`
	Documents   []DocumentType `json:"documents"`
}

type DocumentType struct {
	ID          string    `json:"id"`
	Label       string    `json:"label"`
	ZeroContent bool      `json:"zeroContent"`
	Implemented bool      `json:"implemented"`
	Sections    []Section `json:"sections,omitempty"`
}

// Section describes one required prose section. Kind is "text" or "list".
type Section struct {
	Key  string `json:"key"`
	Kind string `json:"kind"`
}
