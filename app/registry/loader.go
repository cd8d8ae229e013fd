package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// sourceFile is the on-disk shape of one YAML source definition.
type sourceFile struct {
	Name       string               `yaml:"name"`
	URL        string               `yaml:"url"`
	Feeds      []Feed               `yaml:"feeds"`
	Categories map[string][]FeedRef `yaml:"categories"`
}

// NewFromDir builds a registry from a directory of YAML source files,
// replacing the compiled-in table. Each *.yml file defines one source; the
// source id is derived from the filename. Category lists from all files
// are merged. The whole directory is validated before the registry is
// returned, so a bad file fails startup instead of surfacing mid-query.
func NewFromDir(dir string) (*Registry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("sources directory %s: %w", dir, err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no source definitions found in %s", dir)
	}
	sort.Strings(files)

	var sources []Source
	categories := make(map[string][]FeedRef)

	for _, file := range files {
		fileName := filepath.Base(file)
		sourceID := fileName[:len(fileName)-len(".yml")]

		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		var sf sourceFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}

		sources = append(sources, Source{
			ID:    sourceID,
			Name:  sf.Name,
			URL:   sf.URL,
			Feeds: sf.Feeds,
		})

		for category, refs := range sf.Categories {
			categories[category] = append(categories[category], refs...)
		}
	}

	reg, err := build(sources, categories)
	if err != nil {
		return nil, fmt.Errorf("invalid sources directory %s: %w", dir, err)
	}
	return reg, nil
}
