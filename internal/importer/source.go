package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Seed is one meal entry in a seed file.
type Seed struct {
	Name       string  `yaml:"name"`
	Cuisine    string  `yaml:"cuisine"`
	Price      float64 `yaml:"price"`
	Difficulty string  `yaml:"difficulty"`
}

// SeedFile is the on-disk layout of a seed file:
//
//	meals:
//	  - name: Spaghetti Bolognese
//	    cuisine: Italian
//	    price: 12.5
//	    difficulty: MED
type SeedFile struct {
	Meals []Seed `yaml:"meals"`
}

// Source loads seeds from a format-specific location.
//
// Precondition: path must exist.
// Postcondition: returns the seeds in file order, or a non-nil error.
type Source interface {
	Load(path string) ([]Seed, error)
}

// YAMLSource reads a single seed file, or every *.yaml / *.yml file in a
// directory in lexicographic order.
type YAMLSource struct{}

// NewYAMLSource returns a YAMLSource.
func NewYAMLSource() YAMLSource {
	return YAMLSource{}
}

// Load implements Source.
func (YAMLSource) Load(path string) ([]Seed, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return loadFile(path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed dir %s: %w", path, err)
	}
	var files []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)

	var seeds []Seed
	for _, f := range files {
		s, err := loadFile(f)
		if err != nil {
			return nil, err
		}
		seeds = append(seeds, s...)
	}
	return seeds, nil
}

func loadFile(path string) ([]Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}
	seeds, err := ParseSeeds(data)
	if err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}
	return seeds, nil
}

// ParseSeeds decodes seed YAML. Unknown keys are rejected.
//
// Postcondition: returns the seeds in document order; an empty document yields
// no seeds and no error.
func ParseSeeds(data []byte) ([]Seed, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f SeedFile
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return f.Meals, nil
}
