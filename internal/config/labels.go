package config

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"plantid/internal/common/fsutil"
)

// LoadLabels reads an ordered label list. JSON, YAML and TOML files must hold a
// list of strings (TOML under a "labels" key); any other extension is read as
// one label per line, skipping blank lines and '#' comments.
func LoadLabels(path string) ([]string, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	var labels []string
	switch strings.ToLower(filepath.Ext(p)) {
	case ".json", ".yaml", ".yml":
		if err := unmarshalByExt(p, b, &labels); err != nil {
			return nil, fmt.Errorf("parse labels %s: %w", p, err)
		}
	case ".toml":
		var doc struct {
			Labels []string `toml:"labels"`
		}
		if err := unmarshalByExt(p, b, &doc); err != nil {
			return nil, fmt.Errorf("parse labels %s: %w", p, err)
		}
		labels = doc.Labels
	default:
		sc := bufio.NewScanner(bytes.NewReader(b))
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			labels = append(labels, line)
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("scan labels %s: %w", p, err)
		}
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", p)
	}
	for i, l := range labels {
		if strings.TrimSpace(l) == "" {
			return nil, fmt.Errorf("labels file %s: entry %d is empty", p, i)
		}
	}
	return labels, nil
}

// ResolveLabels returns the configured label list, reading labels_file when set.
func (m ModelConfig) ResolveLabels() ([]string, error) {
	if m.LabelsFile != "" {
		return LoadLabels(m.LabelsFile)
	}
	if len(m.Labels) == 0 {
		return nil, fmt.Errorf("no labels configured")
	}
	return append([]string(nil), m.Labels...), nil
}
