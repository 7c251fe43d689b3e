package towerload

import (
	"github.com/ukaji3/towerload-go/pkg/towerload/loads"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"github.com/ukaji3/towerload-go/pkg/towerload/parser"
	"github.com/ukaji3/towerload-go/pkg/towerload/rated"
	"github.com/ukaji3/towerload-go/pkg/towerload/turbulence"
)

// Stage is one computation step of a run. Stages consume a typed input and
// produce a typed output; they hold no state shared with other stages.
type Stage[In, Out any] interface {
	Name() string
	Run(in In) (Out, error)
}

var (
	_ Stage[string, *models.WindResourceRecord]        = parser.WindStage{}
	_ Stage[models.ConditionTable, map[string]float64] = rated.Estimator{}
	_ Stage[turbulence.Input, models.FeatureSet]       = (*turbulence.Interpolator)(nil)
	_ Stage[loads.Input, models.LoadResult]            = (*loads.Engine)(nil)
)
