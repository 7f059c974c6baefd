package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/giantswarm/scenegroup/internal/catalog"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog.toml>",
		Short: "Check a catalog for errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := catalog.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			scenes := 0
			for _, g := range groups {
				scenes += len(g.Entries)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d groups, %d scenes\n", args[0], len(groups), scenes)
			return nil
		},
	}
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <catalog.toml>",
		Short: "List the groups and scenes of a catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groups, err := catalog.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var rows [][]string
			for i, g := range groups {
				if len(g.Entries) == 0 {
					rows = append(rows, []string{strconv.Itoa(i), g.Name, "", "", "", ""})
					continue
				}
				for _, e := range g.Entries {
					rows = append(rows, []string{strconv.Itoa(i), g.Name, e.Name(), e.Path, e.Kind.String(), e.Role.String()})
				}
			}
			out := renderTable(
				[]string{"#", "Group", "Scene", "Path", "Store", "Role"},
				rows,
				[]columnAlignment{alignRight},
			)
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
