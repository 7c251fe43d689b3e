// Package towerload screens candidate wind-farm sites by estimating their
// ultimate and fatigue tower loads relative to reference designs.
package towerload

import (
	"errors"
	"fmt"
)

// ErrNoInput indicates the options name no custom wind-resource workbook.
var ErrNoInput = errors.New("no wind-resource workbook")

// StageError reports the stage and input file of a failed run.
type StageError struct {
	File  string
	Stage string // "regressors", "parse", "rated-wind-speed", "turbulence", "loads", "cache", "normalize"
	Err   error
}

func (e *StageError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Stage, e.File, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(file, stage string, err error) *StageError {
	return &StageError{
		File:  file,
		Stage: stage,
		Err:   err,
	}
}
