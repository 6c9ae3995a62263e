package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/tasdk/pkg/parity"
	"github.com/spf13/cobra"
)

var errParity = errors.New("studies deviate from go-talib")

func buildVerifyCmd(a *app) *cobra.Command {
	var (
		input     inputFlags
		periods   int
		tolerance float64
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare studies with their go-talib equivalents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runVerify(cmd, input, periods, tolerance)
		},
	}

	input.register(cmd)
	cmd.Flags().IntVar(&periods, "periods", 14, "Periods used by every check")
	cmd.Flags().Float64Var(&tolerance, "tolerance", parity.DefaultTolerance, "Largest accepted deviation")

	return cmd
}

func (a *app) runVerify(cmd *cobra.Command, input inputFlags, periods int, tolerance float64) error {
	bars, err := a.loadBars(cmd, input)
	if err != nil {
		return err
	}

	report, err := parity.Run(cmd.Context(), bars, tolerance, parity.DefaultChecks(periods)...)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Check", "Series", "Compared", "Max Diff", "Mean Diff", "Status"})
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	for _, row := range report.Rows {
		status := "info"
		if row.Exact {
			status = "ok"
			if !row.Pass {
				status = "FAIL"
			}
		}
		table.Append([]string{
			row.Name,
			row.Series,
			strconv.Itoa(row.Compared),
			fmt.Sprintf("%.3g", row.MaxAbsDiff),
			fmt.Sprintf("%.3g", row.MeanAbsDiff),
			status,
		})
	}
	table.Render()

	if !report.Passed() {
		for _, row := range report.Failed() {
			a.log.WithField("check", row.Name).Errorf("deviation %g above %g", row.MaxAbsDiff, tolerance)
		}
		return errParity
	}
	return nil
}
