package towerload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML run file over DefaultOptions. Relative paths in
// the file are resolved against the file's directory.
func LoadConfig(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return opts, fmt.Errorf("parse config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	rel := func(p *string) {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	for _, p := range []*string{&opts.Wind, &opts.ULDir, &opts.FLDir, &opts.Cache.Dir, &opts.Cache.DB,
		&opts.Output.JSON, &opts.Output.PNG, &opts.Output.XLSX, &opts.MetricsFile} {
		rel(p)
	}
	for i := range opts.References {
		rel(&opts.References[i])
	}
	for i := range opts.ReferenceDirs {
		rel(&opts.ReferenceDirs[i])
	}
	return opts, nil
}
