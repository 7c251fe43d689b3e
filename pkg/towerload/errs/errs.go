// Package errs defines the error taxonomy shared by all towerload stages.
//
// Every failure that aborts a run is one of three kinds: malformed input
// (DataFormatError), a wind speed outside the interpolatable range
// (InterpolationError) or a degenerate normalization (ArithmeticError).
// Each type matches its sentinel through errors.Is.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataFormat matches any *DataFormatError.
	ErrDataFormat = errors.New("data format error")
	// ErrInterpolation matches any *InterpolationError.
	ErrInterpolation = errors.New("interpolation error")
	// ErrArithmetic matches any *ArithmeticError.
	ErrArithmetic = errors.New("arithmetic error")
)

// DataFormatError reports malformed or missing spreadsheet structure, an
// unresolvable feature reference or an unexpected regressor file name.
type DataFormatError struct {
	File    string // workbook or regressor file
	Sheet   string // sheet name, if known
	Cell    string // cell reference such as "B7", if known
	Feature string // feature or column label, if known
	Msg     string
	Err     error
}

func (e *DataFormatError) Error() string {
	var b strings.Builder
	b.WriteString("data format error")
	if e.File != "" {
		fmt.Fprintf(&b, " in %q", e.File)
	}
	if e.Sheet != "" {
		fmt.Fprintf(&b, " sheet %q", e.Sheet)
	}
	if e.Cell != "" {
		fmt.Fprintf(&b, " cell %s", e.Cell)
	}
	if e.Feature != "" {
		fmt.Fprintf(&b, " (%s)", e.Feature)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *DataFormatError) Unwrap() error { return e.Err }

func (e *DataFormatError) Is(target error) bool { return target == ErrDataFormat }

// InterpolationError reports a wind speed that cannot be evaluated on a curve.
type InterpolationError struct {
	Site  string
	Curve string // "m1", "m10" or "etm"
	Speed float64
	Min   float64
	Max   float64
}

func (e *InterpolationError) Error() string {
	return fmt.Sprintf("interpolation error: site %q curve %s: wind speed %.4g outside [%.4g, %.4g]",
		e.Site, e.Curve, e.Speed, e.Min, e.Max)
}

func (e *InterpolationError) Is(target error) bool { return target == ErrInterpolation }

// ArithmeticError reports a degenerate computation, typically a load series
// whose maximum cannot serve as a normalization denominator.
type ArithmeticError struct {
	Series string
	Msg    string
}

func (e *ArithmeticError) Error() string {
	return fmt.Sprintf("arithmetic error: series %q: %s", e.Series, e.Msg)
}

func (e *ArithmeticError) Is(target error) bool { return target == ErrArithmetic }

// Format returns a DataFormatError for file with a formatted message.
func Format(file, format string, args ...any) *DataFormatError {
	return &DataFormatError{File: file, Msg: fmt.Sprintf(format, args...)}
}
