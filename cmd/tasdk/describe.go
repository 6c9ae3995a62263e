package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/tasdk/pkg/metric"
	"github.com/raykavin/tasdk/pkg/study"
	"github.com/spf13/cobra"
)

func buildDescribeCmd(a *app) *cobra.Command {
	var (
		f       computeFlags
		bins    int
		samples int
	)

	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Summarize the outputs of one study",
		Example: "  tasdk describe -i btc-1h.csv --study RSI --param Periods=21",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runDescribe(cmd, f, bins, samples)
		},
	}

	f.input.register(cmd)
	cmd.Flags().StringSliceVar(&f.studies, "study", nil, "Study alias or name")
	cmd.Flags().StringToStringVarP(&f.params, "param", "p", nil, "Parameter override, e.g. Periods=20")
	cmd.Flags().IntVar(&bins, "bins", 15, "Histogram bins")
	cmd.Flags().IntVar(&samples, "samples", 1000, "Bootstrap resamples for the mean interval")
	cmd.MarkFlagRequired("study")

	return cmd
}

func (a *app) runDescribe(cmd *cobra.Command, f computeFlags, bins, samples int) error {
	if len(f.studies) != 1 {
		return errors.New("describe takes exactly one --study")
	}

	bars, err := a.loadBars(cmd, f.input)
	if err != nil {
		return err
	}

	studies, err := resolveStudies(f.studies, false, f.params)
	if err != nil {
		return err
	}

	results, err := study.NewRunner(a.log, 1).Run(cmd.Context(), study.BarSource(bars), studies...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Series", "Count", "Nulls", "Min", "Q25", "Median", "Q75", "Max", "Mean", "StdDev"})
	table.SetAutoFormatHeaders(false)

	summaries := make([]metric.Summary, 0, len(results[0].Series))
	for _, ds := range results[0].Series {
		s := metric.SummarizeSeries(ds)
		summaries = append(summaries, s)
		table.Append([]string{
			s.Name,
			strconv.Itoa(s.Count),
			strconv.Itoa(s.Nulls),
			fmt.Sprintf("%.4f", s.Min),
			fmt.Sprintf("%.4f", s.Q25),
			fmt.Sprintf("%.4f", s.Median),
			fmt.Sprintf("%.4f", s.Q75),
			fmt.Sprintf("%.4f", s.Max),
			fmt.Sprintf("%.4f", s.Mean),
			fmt.Sprintf("%.4f", s.StdDev),
		})
	}
	table.Render()

	for i, ds := range results[0].Series {
		values := metric.Valid(ds.Values())
		if len(values) == 0 {
			continue
		}

		fmt.Fprintf(out, "\n------ %s -------\n", summaries[i].Name)
		if err := histogram.Fprint(out, histogram.Hist(bins, values), histogram.Linear(10)); err != nil {
			return err
		}

		interval := metric.Bootstrap(values, metric.Mean, samples, 0.95)
		fmt.Fprintf(out, "MEAN (95%%): %.4f (%.4f ~ %.4f)\n", interval.Mean, interval.Lower, interval.Upper)
	}

	return nil
}
