//go:build ignore

// generate_testdata.go creates standard demo boards for manual testing
// and benchmarking. Usage: go run scripts/generate_testdata.go
//
// Creates:
//   tests/testdata/boards/small.json   (3 clusters of 4)
//   tests/testdata/boards/medium.json  (10 clusters of 8)
//   tests/testdata/boards/large.json   (40 clusters of 10)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/corkboard/pkg/board"
	"github.com/vanderheijden86/corkboard/pkg/testutil"
)

type datasetSpec struct {
	name     string
	clusters int
	perGroup int
	loose    int
}

var datasets = []datasetSpec{
	{"small", 3, 4, 3},
	{"medium", 10, 8, 10},
	{"large", 40, 10, 25},
}

func main() {
	outDir := filepath.Join("tests", "testdata", "boards")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		reg, links, err := testutil.NewBoard(testutil.GeneratorConfig{
			Seed:     42,
			IDPrefix: ds.name,
			Clusters: ds.clusters,
			PerGroup: ds.perGroup,
			Loose:    ds.loose,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate %s: %v\n", ds.name, err)
			os.Exit(1)
		}
		path := filepath.Join(outDir, ds.name+".json")
		if err := board.SaveFile(path, reg, links, nil); err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%d entities, %d links)\n", path, reg.Len(), len(links))
	}
}
