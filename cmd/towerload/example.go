package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/ukaji3/towerload-go/internal/fixture"
	"gopkg.in/yaml.v3"
)

// exampleRun is the run file written next to the example workbooks.
type exampleRun struct {
	Wind          string   `yaml:"wind"`
	ReferenceDirs []string `yaml:"reference_dirs"`
	ULDir         string   `yaml:"ul_dir"`
	FLDir         string   `yaml:"fl_dir"`
	Output        struct {
		JSON   string `yaml:"json"`
		PNG    string `yaml:"png"`
		XLSX   string `yaml:"xlsx"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"output"`
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example [dir]",
		Short: "Write a sample site, two reference designs, regressors and a run file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := writeExample(args[0]); err != nil {
				return fmt.Errorf("failed to write example: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "example written; try: towerload run --config %s\n",
				filepath.Join(args[0], "run.yaml"))
			return nil
		},
	}
}

func writeExample(dir string) error {
	site := fixture.Sample("WT", 4, 25)
	site.Note = true
	if err := fixture.WriteWind(filepath.Join(dir, "site.xlsx"), site); err != nil {
		return err
	}
	for _, ref := range []struct {
		name   string
		sites  int
		cutOut float64
	}{
		{"RefA", 3, 25},
		{"RefB", 2, 20},
	} {
		path := filepath.Join(dir, "references", ref.name+".xlsx")
		if err := fixture.WriteWind(path, fixture.Sample(ref.name, ref.sites, ref.cutOut)); err != nil {
			return err
		}
	}
	ulDir, flDir := filepath.Join(dir, "regressors", "UL"), filepath.Join(dir, "regressors", "FL")
	for _, d := range []string{ulDir, flDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	if err := fixture.WriteRegressorSet(ulDir, flDir); err != nil {
		return err
	}

	run := exampleRun{
		Wind:          "site.xlsx",
		ReferenceDirs: []string{"references"},
		ULDir:         "regressors/UL",
		FLDir:         "regressors/FL",
	}
	run.Output.JSON = "out/report.json"
	run.Output.PNG = "out/report.png"
	run.Output.XLSX = "out/report.xlsx"
	run.Output.Pretty = true
	data, err := yaml.Marshal(run)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(dir, "out"), 0755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "run.yaml"), data, 0644)
}
