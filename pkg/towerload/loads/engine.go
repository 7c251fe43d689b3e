package loads

import (
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"go.uber.org/zap"
)

// Input is the input of the regression stage.
type Input struct {
	Record   *models.WindResourceRecord
	Features models.FeatureSet
}

// Engine evaluates the ultimate and fatigue regressors for every site of a
// record. Its tables are shared read-only across runs.
type Engine struct {
	UL     models.RegressorTable
	FL     models.RegressorTable
	Logger *zap.Logger
}

// NewEngine returns an Engine over the given regressor tables.
func NewEngine(ul, fl models.RegressorTable, logger *zap.Logger) (*Engine, error) {
	if len(ul.Cases) == 0 {
		return nil, &errs.DataFormatError{Feature: string(models.Ultimate), Msg: "no ultimate load cases"}
	}
	if len(fl.Cases) != ScheduleLen {
		return nil, &errs.DataFormatError{Feature: string(models.Fatigue),
			Msg: "fatigue case count does not match the proportion schedule"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{UL: ul, FL: fl, Logger: logger}, nil
}

// Name returns the stage name.
func (*Engine) Name() string { return "loads" }

// Run returns the raw, un-normalized loads of every site in record order.
func (e *Engine) Run(in Input) (models.LoadResult, error) {
	res := models.LoadResult{
		UL: models.LoadSeries{Name: string(models.Ultimate)},
		FL: models.LoadSeries{Name: string(models.Fatigue)},
	}
	rec := in.Record
	if rec == nil {
		return res, &errs.DataFormatError{Msg: "no wind resource record"}
	}
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	for _, site := range rec.Sites {
		cond, ok := rec.Condition.Get(site)
		if !ok {
			return res, &errs.DataFormatError{File: rec.Path, Feature: site, Msg: "site has no condition row"}
		}
		feats, ok := in.Features.Sites[site]
		if !ok {
			return res, &errs.DataFormatError{File: rec.Path, Feature: site, Msg: "site has no turbulence features"}
		}

		ul := evaluateAll(e.UL, site, cond, feats, logger)
		peak, err := Ultimate(caseValues(ul))
		if err != nil {
			return res, err
		}

		fl := evaluateAll(e.FL, site, cond, feats, logger)
		sched, err := CaseProportions(cond.K, cond.A, cond.V50)
		if err != nil {
			return res, withSite(err, rec.Path, site)
		}
		del, err := FatigueEquivalent(sched.Values, caseValues(fl))
		if err != nil {
			return res, withSite(err, rec.Path, site)
		}

		res.UL.Add(site, peak)
		res.FL.Add(site, del)
		res.Ultimate = append(res.Ultimate, ul)
		res.Fatigue = append(res.Fatigue, fl)
	}
	return res, nil
}

// Reference returns the raw loads of a result as the cache record of name.
func Reference(name string, res models.LoadResult) models.ReferenceLoads {
	return models.ReferenceLoads{
		Name: name,
		UL:   models.LoadSeries{Name: name, Entries: append([]models.LoadEntry(nil), res.UL.Entries...)},
		FL:   models.LoadSeries{Name: name, Entries: append([]models.LoadEntry(nil), res.FL.Entries...)},
	}
}

func evaluateAll(table models.RegressorTable, site string, cond models.SiteCondition, feats models.TurbulenceFeatures, logger *zap.Logger) models.SiteLoads {
	sl := models.SiteLoads{Site: site, Cases: make([]models.CaseLoad, 0, len(table.Cases))}
	for _, reg := range table.Cases {
		v := Evaluate(reg, cond, feats)
		sl.Cases = append(sl.Cases, models.CaseLoad{Case: reg.Case, Value: v})
		logger.Debug("Evaluated load case",
			zap.String("site", site), zap.String("kind", string(table.Kind)),
			zap.String("case", reg.Case), zap.Float64("load", v))
	}
	return sl
}

func caseValues(sl models.SiteLoads) []float64 {
	out := make([]float64, len(sl.Cases))
	for i, c := range sl.Cases {
		out[i] = c.Value
	}
	return out
}

func withSite(err error, path, site string) error {
	if dfe, ok := err.(*errs.DataFormatError); ok {
		if dfe.File == "" {
			dfe.File = path
		}
		dfe.Msg = "site " + site + ": " + dfe.Msg
	}
	return err
}
