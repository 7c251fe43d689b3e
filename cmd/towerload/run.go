package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ukaji3/towerload-go/internal/obs"
	"github.com/ukaji3/towerload-go/pkg/towerload"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"github.com/ukaji3/towerload-go/pkg/towerload/report"
	"go.uber.org/zap"
)

type runFlags struct {
	refs        []string
	refDirs     []string
	ulDir       string
	flDir       string
	jsonPath    string
	pngPath     string
	xlsxPath    string
	text        bool
	pretty      bool
	metricsFile string
	cache       cacheFlags
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [wind.xlsx]",
		Short: "Estimate and normalize the tower loads of a site",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScreening(cmd, g, f, args)
		},
	}
	cmd.Flags().StringArrayVar(&f.refs, "ref", nil, "Reference design workbook (repeatable)")
	cmd.Flags().StringArrayVar(&f.refDirs, "ref-dir", nil, "Directory of reference design workbooks (repeatable)")
	cmd.Flags().StringVar(&f.ulDir, "ul-dir", "", "Directory of Regress_UL_*.xlsx files")
	cmd.Flags().StringVar(&f.flDir, "fl-dir", "", "Directory of Regress_RF_Case*.xlsx files")
	cmd.Flags().StringVarP(&f.jsonPath, "json", "o", "", "Write the JSON report to this file")
	cmd.Flags().StringVar(&f.pngPath, "png", "", "Write the bar chart to this PNG file")
	cmd.Flags().StringVar(&f.xlsxPath, "xlsx", "", "Write the report workbook to this file")
	cmd.Flags().BoolVar(&f.text, "text", false, "Print a bar chart to the terminal")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write run metrics in Prometheus text format")
	f.cache.register(cmd.Flags())
	return cmd
}

func runScreening(cmd *cobra.Command, g *globalFlags, f *runFlags, args []string) error {
	opts, err := baseOptions(g)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if len(args) == 1 {
		opts.Wind = args[0]
	}
	opts.References = append(opts.References, f.refs...)
	opts.ReferenceDirs = append(opts.ReferenceDirs, f.refDirs...)
	for _, s := range []struct {
		name string
		dst  *string
		val  string
	}{
		{"ul-dir", &opts.ULDir, f.ulDir},
		{"fl-dir", &opts.FLDir, f.flDir},
		{"json", &opts.Output.JSON, f.jsonPath},
		{"png", &opts.Output.PNG, f.pngPath},
		{"xlsx", &opts.Output.XLSX, f.xlsxPath},
		{"metrics-file", &opts.MetricsFile, f.metricsFile},
	} {
		if flags.Changed(s.name) {
			*s.dst = s.val
		}
	}
	if flags.Changed("text") {
		opts.Output.Text = f.text
	}
	if flags.Changed("pretty") {
		opts.Output.Pretty = f.pretty
	}
	f.cache.apply(flags, &opts.Cache)

	if opts.Wind == "" {
		return fmt.Errorf("no wind-resource workbook: pass one as an argument or set wind in the run file")
	}
	if _, err := os.Stat(opts.Wind); err != nil {
		return fmt.Errorf("file not found: %s", opts.Wind)
	}

	logger, err := newLogger(g, opts.Log)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	opts.Logger = logger
	opts.Metrics = obs.NewMetrics()

	rep, runErr := towerload.Run(opts)
	if opts.MetricsFile != "" {
		if err := opts.Metrics.WriteTextfile(opts.MetricsFile); err != nil {
			logger.Warn("Writing metrics failed", zap.String("path", opts.MetricsFile), zap.Error(err))
		}
	}
	if runErr != nil {
		return fmt.Errorf("run failed: %w", runErr)
	}
	return writeOutputs(cmd, rep, opts.Output)
}

func writeOutputs(cmd *cobra.Command, rep *models.Report, out towerload.OutputOptions) error {
	if out.JSON != "" || (out.PNG == "" && out.XLSX == "" && !out.Text) {
		data, err := report.JSON(rep, out.Pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		if out.JSON != "" {
			if err := os.WriteFile(out.JSON, data, 0644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		}
	}
	if out.PNG != "" {
		var buf bytes.Buffer
		if err := report.PNG(&buf, rep); err != nil {
			return err
		}
		if err := os.WriteFile(out.PNG, buf.Bytes(), 0644); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
	}
	if out.XLSX != "" {
		if err := report.XLSX(out.XLSX, rep); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
	}
	if out.Text {
		return report.Text(cmd.OutOrStdout(), rep)
	}
	return nil
}
