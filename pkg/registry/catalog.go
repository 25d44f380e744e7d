// pkg/registry/catalog.go
package registry

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	docregistry "loandoc-workers/internal/docgen/registry"
	"loandoc-workers/internal/models"
)

const CatalogVersion = "1.0.0"

// BuildCatalog derives the exported catalog from the compiled-in registry.
// Output order is deterministic (sorted by type id).
func BuildCatalog() *DocumentCatalog {
	specs := docregistry.All()

	docs := make([]DocumentType, 0, len(specs))
	for _, spec := range specs {
		doc := DocumentType{
			ID:          string(spec.TypeID),
			Label:       spec.Label,
			ZeroContent: spec.ZeroContent,
			Implemented: spec.Build != nil,
		}
		for _, sec := range spec.Schema.Sections {
			kind := "text"
			if sec.Kind == models.SectionList {
				kind = "list"
			}
			doc.Sections = append(doc.Sections, Section{Key: sec.Key, Kind: kind})
		}
		docs = append(docs, doc)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	return &DocumentCatalog{
		Version:     CatalogVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Documents:   docs,
	}
}

func LoadCatalog(path string) (*DocumentCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var catalog DocumentCatalog
	err = json.Unmarshal(data, &catalog)
	return &catalog, err
}

func SaveCatalog(catalog *DocumentCatalog, path string) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
