package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/giantswarm/scenegroup"
	"github.com/giantswarm/scenegroup/internal/content"
	"github.com/giantswarm/scenegroup/internal/simstore"
)

func (c *commandContext) openContent(ctx context.Context, rt content.Attacher) (*content.Store, error) {
	if c.contentDir == "" {
		return nil, errors.New("--content is required")
	}
	return content.Open(ctx, c.contentDir, rt)
}

func newContentCommand(c *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Manage the addressable content directory",
	}
	cmd.AddCommand(newContentImportCommand(c))
	cmd.AddCommand(newContentListCommand(c))
	cmd.AddCommand(newContentRemoveCommand(c))
	return cmd
}

func newContentImportCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <address>=<file>...",
		Short: "Import bundles under their addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (retErr error) {
			store, err := c.openContent(cmd.Context(), simstore.New())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil && retErr == nil {
					retErr = err
				}
			}()

			records := make([]content.Record, len(args))
			tasks := scenegroup.NewParallelTasks(nil)
			for i, arg := range args {
				address, file, ok := strings.Cut(arg, "=")
				if !ok || address == "" || file == "" {
					return fmt.Errorf("argument %q: want <address>=<file>", arg)
				}
				tasks.Add(func(ctx context.Context, _ scenegroup.Reporter) error {
					rec, err := store.Import(ctx, address, file)
					records[i] = rec
					return err
				})
			}
			if err := tasks.RunAll(cmd.Context()); err != nil {
				return err
			}

			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s as scene %s (%d bytes)\n", rec.Address, rec.Scene, rec.Size)
			}
			return nil
		},
	}
}

func newContentListCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List indexed content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (retErr error) {
			store, err := c.openContent(cmd.Context(), simstore.New())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil && retErr == nil {
					retErr = err
				}
			}()

			records, err := store.Index().List(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{rec.Address, rec.Scene, strconv.FormatInt(rec.Size, 10), rec.File})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Address", "Scene", "Bytes", "File"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}

func newContentRemoveCommand(c *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <address>...",
		Short: "Remove content by address",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (retErr error) {
			store, err := c.openContent(cmd.Context(), simstore.New())
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil && retErr == nil {
					retErr = err
				}
			}()

			for _, address := range args {
				if err := store.Remove(cmd.Context(), address); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", address)
			}
			return nil
		},
	}
}
