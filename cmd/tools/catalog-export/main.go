// cmd/tools/catalog-export/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"loandoc-workers/pkg/registry"
)

func main() {
	outPath := flag.String("out", "", "Write the catalog to this file instead of stdout")
	flag.Parse()

	catalog := registry.BuildCatalog()

	if *outPath != "" {
		if err := registry.SaveCatalog(catalog, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing catalog: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d document types to %s\n", len(catalog.Documents), *outPath)
		return
	}

	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding catalog: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
