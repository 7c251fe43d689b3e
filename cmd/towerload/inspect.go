package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"github.com/ukaji3/towerload-go/pkg/towerload/parser"
	"github.com/ukaji3/towerload-go/pkg/towerload/rated"
	"github.com/ukaji3/towerload-go/pkg/towerload/report"
	"github.com/ukaji3/towerload-go/pkg/towerload/turbulence"
)

// windInspection is the inspect output for a wind-resource workbook.
type windInspection struct {
	Record   *models.WindResourceRecord `json:"record"`
	Rated    map[string]float64         `json:"rated_wind_speed"`
	Features models.FeatureSet          `json:"features"`
}

func newInspectCmd(g *globalFlags) *cobra.Command {
	var pretty, asReport bool
	cmd := &cobra.Command{
		Use:   "inspect [file.xlsx]",
		Short: "Show the parsed record and derived features of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", path)
			}
			var v any
			if asReport {
				wb, err := report.Inspect(path)
				if err != nil {
					return fmt.Errorf("inspection failed: %w", err)
				}
				v = wb
			} else {
				wi, err := inspectWind(g, path)
				if err != nil {
					return fmt.Errorf("inspection failed: %w", err)
				}
				v = wi
			}
			return printJSON(cmd, v, pretty)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().BoolVar(&asReport, "report", false, "Treat the file as a report workbook written by run --xlsx")
	return cmd
}

func inspectWind(g *globalFlags, path string) (*windInspection, error) {
	opts, err := baseOptions(g)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(g, opts.Log)
	if err != nil {
		return nil, err
	}
	defer logger.Sync() //nolint:errcheck

	rec, err := parser.WindStage{Options: opts.Parse}.Run(path)
	if err != nil {
		return nil, err
	}
	rws, err := rated.Estimator{}.Run(rec.Condition)
	if err != nil {
		return nil, err
	}
	fs, err := turbulence.NewInterpolator(logger).Run(turbulence.Input{Record: rec, Rated: rws})
	if err != nil {
		return nil, err
	}
	return &windInspection{Record: rec, Rated: rws, Features: fs}, nil
}

func printJSON(cmd *cobra.Command, v any, pretty bool) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
