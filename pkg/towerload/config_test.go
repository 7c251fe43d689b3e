package towerload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := `
wind: site/farm.xlsx
references: [refs/refA.xlsx]
reference_dirs: [/abs/refs]
ul_dir: regress/ul
fl_dir: regress/fl
cache:
  backend: sqlite
  db: cache.db
parse:
  condition_sheet: Conditions
output:
  json: out/report.json
  text: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "site/farm.xlsx"), opts.Wind)
	assert.Equal(t, []string{filepath.Join(dir, "refs/refA.xlsx")}, opts.References)
	assert.Equal(t, []string{"/abs/refs"}, opts.ReferenceDirs)
	assert.Equal(t, filepath.Join(dir, "regress/fl"), opts.FLDir)
	assert.Equal(t, CacheSQLite, opts.Cache.Backend)
	assert.Equal(t, filepath.Join(dir, "cache.db"), opts.Cache.DB)
	assert.Equal(t, "Conditions", opts.Parse.ConditionSheet)
	assert.Equal(t, "M=10", opts.Parse.M10Sheet, "unset fields keep defaults")
	assert.Equal(t, 4, opts.Parse.MaxConditionRows)
	assert.True(t, opts.Output.Text)
	assert.Equal(t, "info", opts.Log.Level)
}

func TestLoadConfigEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	opts, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, CacheJSON, opts.Cache.Backend)
}

func TestLoadConfigRejectsUnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wnd: farm.xlsx\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestResolveReferences(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.xlsx", "a.xls", "~$a.xlsx", "notes.txt", "custom.xlsx"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.xlsx"), 0o755))

	got, err := ResolveReferences(filepath.Join(dir, "custom.xlsx"),
		[]string{filepath.Join(dir, "b.xlsx"), "/elsewhere/z.xlsx"}, []string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "b.xlsx"),
		"/elsewhere/z.xlsx",
		filepath.Join(dir, "a.xls"),
	}, got)

	_, err = ResolveReferences("", nil, []string{filepath.Join(dir, "missing")})
	assert.Error(t, err)
}
