package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/tasdk/pkg/core"
	"github.com/raykavin/tasdk/pkg/study"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// computeFlags are the flags of compute and describe
type computeFlags struct {
	input      inputFlags
	studies    []string
	all        bool
	params     map[string]string
	tail       int
	outputFile string
	precision  int
}

func buildComputeCmd(a *app) *cobra.Command {
	var f computeFlags

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Calculate studies over a bar set",
		Example: "  tasdk compute -i btc-1h.csv --study RSI --study BB --param Periods=20\n" +
			"  tasdk compute -s BTCUSDT --store bunt:bars.db --all -o studies.csv",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCompute(cmd, f)
		},
	}

	f.input.register(cmd)
	cmd.Flags().StringSliceVar(&f.studies, "study", nil, "Study alias or name, repeatable")
	cmd.Flags().BoolVar(&f.all, "all", false, "Calculate every study with its defaults")
	cmd.Flags().StringToStringVarP(&f.params, "param", "p", nil, "Parameter override, e.g. Periods=20")
	cmd.Flags().IntVarP(&f.tail, "tail", "n", 10, "Rows printed from the end")
	cmd.Flags().StringVarP(&f.outputFile, "output", "o", "", "Write every row to a CSV file instead of printing")
	cmd.Flags().IntVar(&f.precision, "precision", 4, "Decimal places")

	return cmd
}

func (a *app) runCompute(cmd *cobra.Command, f computeFlags) error {
	bars, err := a.loadBars(cmd, f.input)
	if err != nil {
		return err
	}

	studies, err := resolveStudies(f.studies, f.all, f.params)
	if err != nil {
		return err
	}

	runner := study.NewRunner(a.log, a.cfg.Compute.Workers)
	if len(studies) > 1 {
		bar := progressbar.Default(int64(len(studies)), "computing")
		defer bar.Close()
		runner.OnDone = func(*study.Study) { bar.Add(1) }
	}

	results, err := runner.Run(cmd.Context(), study.BarSource(bars), studies...)
	if err != nil {
		return err
	}

	series := flatten(results)
	a.log.WithFields(map[string]any{"studies": len(studies), "series": len(series)}).Info("studies calculated")

	if f.outputFile != "" {
		file, err := os.Create(f.outputFile)
		if err != nil {
			return err
		}
		defer file.Close()
		return writeSeriesCSV(file, bars, series, f.precision)
	}

	printSeries(cmd.OutOrStdout(), bars, series, f.tail, f.precision)
	return nil
}

func flatten(results []study.Result) []*core.DataSeries {
	var series []*core.DataSeries
	for _, r := range results {
		series = append(series, r.Series...)
	}
	return series
}

// rowCount covers displaced outputs that run past the last bar
func rowCount(bars []core.Bar, series []*core.DataSeries) int {
	n := len(bars)
	for _, ds := range series {
		n = max(n, ds.Len())
	}
	return n
}

func row(bars []core.Bar, series []*core.DataSeries, i, precision int) []string {
	cells := make([]string, 0, len(series)+1)
	if i < len(bars) {
		cells = append(cells, bars[i].Time.Format("2006-01-02 15:04"))
	} else {
		cells = append(cells, "+"+strconv.Itoa(i-len(bars)+1))
	}

	for _, ds := range series {
		v, ok := ds.ValueAt(i)
		if !ok || math.IsNaN(v) {
			cells = append(cells, "")
			continue
		}
		cells = append(cells, strconv.FormatFloat(v, 'f', precision, 64))
	}
	return cells
}

func header(series []*core.DataSeries) []string {
	names := []string{"Date"}
	for _, ds := range series {
		names = append(names, ds.Name())
	}
	return names
}

func printSeries(w io.Writer, bars []core.Bar, series []*core.DataSeries, tail, precision int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header(series))
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	n := rowCount(bars, series)
	for i := max(0, n-tail); i < n; i++ {
		table.Append(row(bars, series, i, precision))
	}
	table.Render()
}

func writeSeriesCSV(w io.Writer, bars []core.Bar, series []*core.DataSeries, precision int) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(header(series)); err != nil {
		return err
	}
	for i := 0; i < rowCount(bars, series); i++ {
		if err := writer.Write(row(bars, series, i, precision)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
