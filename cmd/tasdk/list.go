package main

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/raykavin/tasdk/pkg/study"
	"github.com/spf13/cobra"
)

func buildListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available studies and their default parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd)
		},
	}
}

func (a *app) runList(cmd *cobra.Command) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"ID", "Alias", "Name", "Overlay", "Outputs", "Defaults"})
	table.SetAutoWrapText(false)

	for _, id := range study.IDs() {
		s, err := study.New(id)
		if err != nil {
			return err
		}

		overlay := ""
		if s.Overlay() {
			overlay = "yes"
		}
		table.Append([]string{
			strconv.Itoa(int(id)),
			s.Alias(),
			s.Name(),
			overlay,
			strings.Join(s.Fields(), ", "),
			strings.Join(sortedKeys(s.Params()), ", "),
		})
	}

	table.Render()
	return nil
}
