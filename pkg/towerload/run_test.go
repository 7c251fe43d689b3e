package towerload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/towerload-go/internal/fixture"
	"github.com/ukaji3/towerload-go/internal/obs"
	"github.com/ukaji3/towerload-go/pkg/towerload/cache"
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// regressorDirs is written once; the fatigue set has over a hundred files.
var regressorDirs struct {
	ul, fl string
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "towerload-regressors")
	if err != nil {
		panic(err)
	}
	regressorDirs.ul = filepath.Join(dir, "ul")
	regressorDirs.fl = filepath.Join(dir, "fl")
	if err := fixture.WriteRegressorSet(regressorDirs.ul, regressorDirs.fl); err != nil {
		panic(err)
	}
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

type env struct {
	dir     string
	opts    Options
	metrics *obs.Metrics
	logs    *observer.ObservedLogs
}

func newEnv(t *testing.T, customCutOut float64) *env {
	t.Helper()
	dir := t.TempDir()
	custom := filepath.Join(dir, "farm.xlsx")
	require.NoError(t, fixture.WriteWind(custom, fixture.Sample("WT", 4, customCutOut)))

	refDir := filepath.Join(dir, "refs")
	require.NoError(t, fixture.WriteWind(filepath.Join(refDir, "refA.xlsx"), fixture.Sample("A", 3, 25)))
	require.NoError(t, fixture.WriteWind(filepath.Join(refDir, "refB.xlsx"), fixture.Sample("B", 2, 20)))

	core, logs := observer.New(zapcore.InfoLevel)
	m := obs.NewMetrics()
	opts := DefaultOptions()
	opts.Wind = custom
	opts.ReferenceDirs = []string{refDir}
	opts.ULDir = regressorDirs.ul
	opts.FLDir = regressorDirs.fl
	opts.Cache.Dir = filepath.Join(dir, "Loads")
	opts.Logger = zap.New(core)
	opts.Metrics = m
	opts.Clock = clockwork.NewFakeClockAt(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC))
	return &env{dir: dir, opts: opts, metrics: m, logs: logs}
}

func TestRun(t *testing.T) {
	e := newEnv(t, 20)

	report, err := Run(e.opts)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "farm", report.Custom)
	assert.Equal(t, []string{"refA", "refB"}, report.References)
	assert.Empty(t, report.Advisories)
	assert.True(t, report.GeneratedAt.Equal(time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)))

	for _, s := range []struct {
		name   string
		values []float64
	}{{"ul", report.UL.Values()}, {"fl", report.FL.Values()}} {
		require.Len(t, s.values, 9, s.name)
		peak := 0.0
		for _, v := range s.values {
			assert.Greater(t, v, 0.0, s.name)
			assert.LessOrEqual(t, v, 1.0, s.name)
			if v > peak {
				peak = v
			}
		}
		assert.Equal(t, 1.0, peak, s.name)
	}

	assert.Equal(t, "WT-1", report.UL.Entries[0].Label)
	assert.Equal(t, "", report.UL.Entries[0].Origin)
	assert.Equal(t, "refA", report.UL.Entries[4].Origin)
	assert.Equal(t, "refB-B-2", report.UL.Entries[8].Key())

	assert.FileExists(t, filepath.Join(e.opts.Cache.Dir, "refA_loads.json"))
	assert.FileExists(t, filepath.Join(e.opts.Cache.Dir, "refB_loads.json"))
	assert.Equal(t, 0.0, testutil.ToFloat64(e.metrics.CacheHits))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.CacheMisses))
	assert.Equal(t, 4.0, testutil.ToFloat64(e.metrics.SitesEvaluated.WithLabelValues(originCustom)))
	assert.Equal(t, 5.0, testutil.ToFloat64(e.metrics.SitesEvaluated.WithLabelValues(originReference)))
	assert.Equal(t, 123.0, testutil.ToFloat64(e.metrics.RegressorsLoaded.WithLabelValues("fl")))
}

func TestRunUsesCache(t *testing.T) {
	e := newEnv(t, 20)
	first, err := Run(e.opts)
	require.NoError(t, err)

	// Cached references are not re-read.
	require.NoError(t, os.WriteFile(filepath.Join(e.dir, "refs", "refA.xlsx"), []byte("stale"), 0o644))

	second, err := Run(e.opts)
	require.NoError(t, err)
	assert.Equal(t, first.UL.Values(), second.UL.Values())
	assert.Equal(t, first.FL.Values(), second.FL.Values())
	assert.Equal(t, 2.0, testutil.ToFloat64(e.metrics.CacheHits))

	hits := e.logs.FilterMessage("Reference loads ready").FilterField(zap.Bool("cache_hit", true))
	assert.Equal(t, 2, hits.Len())
}

func TestRunWithSQLiteCache(t *testing.T) {
	e := newEnv(t, 20)
	store, err := cache.OpenSQLite(context.Background(), filepath.Join(e.dir, "cache.db"), e.opts.Clock)
	require.NoError(t, err)
	defer store.Close()
	e.opts.Store = store

	_, err = Run(e.opts)
	require.NoError(t, err)

	entries, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "refA", entries[0].Name)
	assert.Equal(t, 3, entries[0].Sites)
	assert.NoDirExists(t, e.opts.Cache.Dir)
}

func TestRunWithoutReferences(t *testing.T) {
	e := newEnv(t, 20)
	e.opts.ReferenceDirs = nil

	report, err := Run(e.opts)
	require.NoError(t, err)
	assert.Empty(t, report.References)
	assert.Equal(t, 4, report.UL.Len())
}

func TestRunAdvisory(t *testing.T) {
	e := newEnv(t, 18)

	report, err := Run(e.opts)
	require.NoError(t, err)
	require.Len(t, report.Advisories, 1)
	assert.Contains(t, report.Advisories[0], "farm")
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.Advisories))
	assert.Equal(t, 1, e.logs.FilterMessage("Unexpected cut-out wind speed").Len())
}

func TestRunErrors(t *testing.T) {
	t.Run("no wind workbook", func(t *testing.T) {
		_, err := Run(DefaultOptions())
		assert.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("missing regressor dir", func(t *testing.T) {
		e := newEnv(t, 20)
		e.opts.ULDir = filepath.Join(e.dir, "nope")
		_, err := Run(e.opts)
		require.ErrorIs(t, err, errs.ErrDataFormat)
		var se *StageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "regressors", se.Stage)
	})

	t.Run("broken reference workbook", func(t *testing.T) {
		e := newEnv(t, 20)
		require.NoError(t, os.WriteFile(filepath.Join(e.dir, "refs", "refB.xlsx"), []byte("not a workbook"), 0o644))
		_, err := Run(e.opts)
		require.ErrorIs(t, err, errs.ErrDataFormat)
		var se *StageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "parse", se.Stage)
		assert.Contains(t, se.File, "refB.xlsx")
	})

	t.Run("unknown cache backend", func(t *testing.T) {
		e := newEnv(t, 20)
		e.opts.Cache.Backend = "redis"
		_, err := Run(e.opts)
		var se *StageError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "cache", se.Stage)
	})
}

func TestStageError(t *testing.T) {
	inner := errors.New("boom")
	err := NewStageError("farm.xlsx", "parse", inner)
	assert.Equal(t, `parse "farm.xlsx": boom`, err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "regressors: boom", NewStageError("", "regressors", inner).Error())
}
