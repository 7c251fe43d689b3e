package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

// FileSuffix is appended to the reference name to form the cache file name.
const FileSuffix = "_loads.json"

// FileStore keeps one JSON file per reference in a directory:
//
//	{"ul": {"<site>": <load>, ...}, "fl": {"<site>": <load>, ...}}
//
// Site order is preserved. An empty file is a miss.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// Path returns the cache file of name.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.Dir, name+FileSuffix)
}

func (s *FileStore) Lookup(_ context.Context, name string) (models.ReferenceLoads, bool, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.ReferenceLoads{}, false, nil
	}
	if err != nil {
		return models.ReferenceLoads{}, false, fmt.Errorf("read cache %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.ReferenceLoads{}, false, nil
	}
	loads, err := decode(data)
	if err != nil {
		return loads, false, &errs.DataFormatError{File: path, Msg: "corrupt reference load cache", Err: err}
	}
	return named(name, loads), true, nil
}

func decode(data []byte) (models.ReferenceLoads, error) {
	var loads models.ReferenceLoads
	if !gjson.ValidBytes(data) {
		return loads, errors.New("invalid JSON")
	}
	for _, key := range []string{"ul", "fl"} {
		if !gjson.GetBytes(data, key).IsObject() {
			return loads, fmt.Errorf("missing %q object", key)
		}
	}
	if err := json.Unmarshal(data, &loads); err != nil {
		return loads, err
	}
	return loads, nil
}

func (s *FileStore) Store(_ context.Context, loads models.ReferenceLoads) error {
	if loads.Name == "" || strings.ContainsAny(loads.Name, `/\`) {
		return fmt.Errorf("invalid reference name %q", loads.Name)
	}
	data, err := json.MarshalIndent(loads, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache %s: %w", loads.Name, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+loads.Name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(loads.Name)); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// List returns the cached references ordered by name. Empty and unreadable
// files are skipped.
func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*"+FileSuffix))
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, path := range matches {
		name := strings.TrimSuffix(filepath.Base(path), FileSuffix)
		loads, ok, err := s.Lookup(ctx, name)
		if err != nil || !ok {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		out = append(out, Entry{Name: name, Sites: loads.UL.Len(), ComputedAt: info.ModTime().UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Clear removes every cache file and returns how many were removed.
func (s *FileStore) Clear(_ context.Context) (int, error) {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*"+FileSuffix))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return n, fmt.Errorf("remove %s: %w", path, err)
		}
		n++
	}
	return n, nil
}
