// Package packs ships the embedded starter rule pack and installs it into
// a data directory so first runs have content without any download.
package packs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ruledex/ruledex/internal/rules"
)

//go:embed data/rules.json
var packFS embed.FS

var writeFileFn = os.WriteFile

// PackFile is the name a rule pack takes inside a data directory.
const PackFile = "rules.json"

// Default returns the embedded starter pack bytes.
func Default() []byte {
	raw, err := packFS.ReadFile("data/rules.json")
	if err != nil {
		// The file is compiled in; a miss is a build defect.
		panic(fmt.Sprintf("ruledex: embedded pack missing: %v", err))
	}
	return raw
}

// DefaultLibrary parses the embedded starter pack. The embedded data is
// validated by tests, so a parse failure degrades like any other bad pack.
func DefaultLibrary() *rules.Library {
	lib, err := rules.Parse(Default())
	if err != nil {
		return rules.Empty()
	}
	return lib
}

// Result holds the outcome of a pack installation.
type Result struct {
	Destination string
	Rules       int
	Replaced    bool
}

// Install writes the starter pack into dataDir as rules.json. An existing
// pack is left alone unless force is set.
func Install(dataDir string, force bool) (Result, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return Result{}, fmt.Errorf("ruledex: create data dir: %w", err)
	}

	dest := filepath.Join(dataDir, PackFile)
	_, statErr := os.Stat(dest)
	exists := statErr == nil
	if exists && !force {
		return Result{}, fmt.Errorf("ruledex: %s already exists (use --force to replace)", dest)
	}

	if err := writeFileFn(dest, Default(), 0644); err != nil {
		return Result{}, fmt.Errorf("ruledex: write pack: %w", err)
	}
	return Result{
		Destination: dest,
		Rules:       DefaultLibrary().Len(),
		Replaced:    exists,
	}, nil
}
