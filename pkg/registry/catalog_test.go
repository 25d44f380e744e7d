// pkg/registry/catalog_test.go
package registry

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCatalog_CoversEveryRegisteredType(t *testing.T) {
	catalog := BuildCatalog()

	assert.Equal(t, CatalogVersion, catalog.Version)
	assert.Len(t, catalog.Documents, 13)
	assert.True(t, sort.SliceIsSorted(catalog.Documents, func(i, j int) bool {
		return catalog.Documents[i].ID < catalog.Documents[j].ID
	}))
}

func TestBuildCatalog_SectionKinds(t *testing.T) {
	catalog := BuildCatalog()

	byID := map[string]DocumentType{}
	for _, doc := range catalog.Documents {
		byID[doc.ID] = doc
	}

	note := byID["promissory_note"]
	assert.False(t, note.ZeroContent)
	assert.True(t, note.Implemented)
	require.NotEmpty(t, note.Sections)

	flood := byID["flood_determination"]
	assert.True(t, flood.ZeroContent)
	assert.Empty(t, flood.Sections)

	indemnity := byID["environmental_indemnity"]
	assert.False(t, indemnity.Implemented)
	assert.NotEmpty(t, indemnity.Sections)
}

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	require.NoError(t, SaveCatalog(BuildCatalog(), path))

	loaded, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Documents, 13)
}
