package towerload

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/ukaji3/towerload-go/internal/obs"
	"github.com/ukaji3/towerload-go/pkg/towerload/cache"
	"github.com/ukaji3/towerload-go/pkg/towerload/loads"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"github.com/ukaji3/towerload-go/pkg/towerload/parser"
	"github.com/ukaji3/towerload-go/pkg/towerload/rated"
	"github.com/ukaji3/towerload-go/pkg/towerload/turbulence"
	"go.uber.org/zap"
)

// Origin labels of the sites-evaluated metric.
const (
	originCustom    = "custom"
	originReference = "reference"
)

// Run screens opts.Wind against the reference designs of opts.
func Run(opts Options) (*models.Report, error) {
	return RunContext(context.Background(), opts)
}

// RunContext is Run with a context for the reference-load cache.
//
// Reference loads come from the cache when present; otherwise they are
// computed from the reference workbook and stored. The custom site is always
// computed. Any failure aborts the run.
func RunContext(ctx context.Context, opts Options) (*models.Report, error) {
	if opts.Wind == "" {
		return nil, ErrNoInput
	}
	p, closeStore, err := newPipeline(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer closeStore()

	refPaths, err := ResolveReferences(opts.Wind, opts.References, opts.ReferenceDirs)
	if err != nil {
		return nil, NewStageError("", "references", err)
	}

	var (
		refs       []models.ReferenceLoads
		advisories []string
	)
	for _, path := range refPaths {
		name := parser.SourceName(path)
		ref, hit, err := cache.GetOrCompute(ctx, p.store, name, func() (models.ReferenceLoads, error) {
			res, fs, err := p.evaluate(path)
			if err != nil {
				return models.ReferenceLoads{}, err
			}
			advisories = append(advisories, fs.Advisories...)
			p.metrics.SitesEvaluated.WithLabelValues(originReference).Add(float64(res.UL.Len()))
			return loads.Reference(name, res), nil
		})
		if err != nil {
			if _, ok := err.(*StageError); ok {
				return nil, err
			}
			return nil, NewStageError(path, "cache", err)
		}
		p.logger.Info("Reference loads ready",
			zap.String("reference", name), zap.Bool("cache_hit", hit), zap.Int("sites", ref.UL.Len()))
		refs = append(refs, ref)
	}

	res, fs, err := p.evaluate(opts.Wind)
	if err != nil {
		return nil, err
	}
	advisories = append(advisories, fs.Advisories...)
	p.metrics.SitesEvaluated.WithLabelValues(originCustom).Add(float64(res.UL.Len()))
	p.metrics.Advisories.Add(float64(len(advisories)))

	var ulRefs, flRefs []models.LoadSeries
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		ulRefs = append(ulRefs, r.UL)
		flRefs = append(flRefs, r.FL)
		names = append(names, r.Name)
	}
	ul, err := loads.Normalize(res.UL, ulRefs...)
	if err != nil {
		return nil, NewStageError(opts.Wind, "normalize", err)
	}
	fl, err := loads.Normalize(res.FL, flRefs...)
	if err != nil {
		return nil, NewStageError(opts.Wind, "normalize", err)
	}

	report := &models.Report{
		RunID:       uuid.NewString(),
		Custom:      parser.SourceName(opts.Wind),
		References:  names,
		UL:          ul,
		FL:          fl,
		Advisories:  advisories,
		GeneratedAt: p.clock.Now().UTC(),
	}
	p.logger.Info("Run complete",
		zap.String("run_id", report.RunID), zap.String("custom", report.Custom),
		zap.Int("references", len(names)), zap.Int("advisories", len(advisories)))
	return report, nil
}

type pipeline struct {
	parse   parser.WindStage
	rated   rated.Estimator
	turb    *turbulence.Interpolator
	engine  *loads.Engine
	store   cache.Store
	logger  *zap.Logger
	metrics *obs.Metrics
	clock   clockwork.Clock
}

func newPipeline(ctx context.Context, opts Options) (*pipeline, func(), error) {
	p := &pipeline{
		parse:   parser.WindStage{Options: opts.Parse},
		logger:  opts.logger(),
		metrics: opts.Metrics,
		clock:   opts.clock(),
	}
	if p.metrics == nil {
		p.metrics = obs.NewMetrics()
	}
	p.turb = turbulence.NewInterpolator(p.logger)

	ul, err := p.loadRegressors(opts.ULDir, models.Ultimate)
	if err != nil {
		return nil, nil, err
	}
	fl, err := p.loadRegressors(opts.FLDir, models.Fatigue)
	if err != nil {
		return nil, nil, err
	}
	p.engine, err = loads.NewEngine(ul, fl, p.logger)
	if err != nil {
		return nil, nil, NewStageError(opts.FLDir, "regressors", err)
	}

	store := opts.Store
	closeStore := func() {}
	if store == nil {
		var closer func() error
		store, closer, err = OpenStore(ctx, opts.Cache, p.clock)
		if err != nil {
			return nil, nil, NewStageError("", "cache", err)
		}
		closeStore = func() {
			if err := closer(); err != nil {
				p.logger.Warn("Closing reference cache failed", zap.Error(err))
			}
		}
	}
	p.store = cache.NewCounting(store, p.metrics.CacheHits, p.metrics.CacheMisses)
	return p, closeStore, nil
}

func (p *pipeline) loadRegressors(dir string, kind models.LoadKind) (models.RegressorTable, error) {
	start := p.clock.Now()
	table, err := loads.LoadRegressors(dir, kind)
	p.metrics.StageDuration.WithLabelValues("regressors").Observe(p.clock.Since(start).Seconds())
	if err != nil {
		return table, NewStageError(dir, "regressors", err)
	}
	p.metrics.RegressorsLoaded.WithLabelValues(string(kind)).Add(float64(len(table.Cases)))
	p.logger.Info("Loaded regressors",
		zap.String("kind", string(kind)), zap.String("dir", dir), zap.Int("cases", len(table.Cases)))
	return table, nil
}

// evaluate computes the raw loads of one wind-resource workbook.
func (p *pipeline) evaluate(path string) (models.LoadResult, models.FeatureSet, error) {
	rec, err := runStage[string, *models.WindResourceRecord](p, path, p.parse, path)
	if err != nil {
		return models.LoadResult{}, models.FeatureSet{}, err
	}
	rws, err := runStage[models.ConditionTable, map[string]float64](p, path, p.rated, rec.Condition)
	if err != nil {
		return models.LoadResult{}, models.FeatureSet{}, err
	}
	fs, err := runStage[turbulence.Input, models.FeatureSet](p, path, p.turb, turbulence.Input{Record: rec, Rated: rws})
	if err != nil {
		return models.LoadResult{}, fs, err
	}
	res, err := runStage[loads.Input, models.LoadResult](p, path, p.engine, loads.Input{Record: rec, Features: fs})
	if err != nil {
		return res, fs, err
	}
	p.logger.Debug("Evaluated workbook", zap.String("file", rec.SourceName), zap.Int("sites", len(rec.Sites)))
	return res, fs, nil
}

func runStage[In, Out any](p *pipeline, file string, s Stage[In, Out], in In) (Out, error) {
	start := p.clock.Now()
	out, err := s.Run(in)
	p.metrics.StageDuration.WithLabelValues(s.Name()).Observe(p.clock.Since(start).Seconds())
	if err != nil {
		var zero Out
		return zero, NewStageError(file, s.Name(), err)
	}
	return out, nil
}

// OpenStore opens the cache selected by opts. The returned function closes it.
func OpenStore(ctx context.Context, opts CacheOptions, clock clockwork.Clock) (cache.Store, func() error, error) {
	noop := func() error { return nil }
	switch opts.Backend {
	case CacheJSON, "":
		return cache.NewFileStore(opts.Dir), noop, nil
	case CacheSQLite:
		s, err := cache.OpenSQLite(ctx, opts.DB, clock)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case CacheNone:
		return nullStore{}, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
}

// nullStore never hits and discards stores.
type nullStore struct{}

func (nullStore) Lookup(context.Context, string) (models.ReferenceLoads, bool, error) {
	return models.ReferenceLoads{}, false, nil
}

func (nullStore) Store(context.Context, models.ReferenceLoads) error { return nil }
