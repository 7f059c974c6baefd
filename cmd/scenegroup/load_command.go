package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/giantswarm/scenegroup"
	"github.com/giantswarm/scenegroup/internal/catalog"
	"github.com/giantswarm/scenegroup/internal/simstore"
)

type loadOptions struct {
	reload       bool
	loadDuration time.Duration
	timeout      time.Duration
	quiet        bool
}

func newLoadCommand(c *commandContext) *cobra.Command {
	var opts loadOptions

	cmd := &cobra.Command{
		Use:   "load <catalog.toml> <index>...",
		Short: "Load catalog groups in order against a simulated runtime",
		Long: "Load each group index in turn, the way a game would switch levels, and " +
			"print the scenes left loaded. Addressable entries are read from --content.",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			indexes := make([]int, 0, len(args)-1)
			for _, a := range args[1:] {
				i, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("group index %q: %w", a, err)
				}
				indexes = append(indexes, i)
			}
			return runLoad(cmd, c, opts, args[0], indexes)
		},
	}

	cmd.Flags().BoolVar(&opts.reload, "reload", false, "Reload scenes that are already loaded")
	cmd.Flags().DurationVar(&opts.loadDuration, "load-duration", 200*time.Millisecond, "Simulated duration of each regular scene load")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", time.Minute, "Give up after this long")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Do not draw progress bars")
	return cmd
}

func runLoad(cmd *cobra.Command, c *commandContext, opts loadOptions, catalogPath string, indexes []int) (retErr error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	groups, err := catalog.Load(ctx, catalogPath)
	if err != nil {
		return err
	}

	rt := simstore.New(simstore.WithLoadDuration(opts.loadDuration))

	var store scenegroup.AddressableStore
	if c.contentDir != "" {
		s, err := c.openContent(ctx, rt)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.Close(); err != nil && retErr == nil {
				retErr = err
			}
		}()
		store = s
	}

	out := cmd.OutOrStdout()
	loader := scenegroup.NewLoader(rt, store, groups,
		scenegroup.WithPollInterval(c.pollInterval),
		scenegroup.WithListener(func(ev scenegroup.Event) {
			if ev.Kind == scenegroup.GroupLoaded {
				fmt.Fprintf(out, "group %s loaded\n", ev.Group)
			}
		}),
	)

	for _, index := range indexes {
		label := fmt.Sprintf("group %d", index)
		if index >= 0 && index < len(groups) {
			label = groups[index].Name
		}
		progress, finish := newProgressBar(cmd.ErrOrStderr(), label, opts.quiet)
		err := loader.LoadGroup(ctx, index, progress, opts.reload)
		finish()
		if err != nil {
			return fmt.Errorf("load %s: %w", label, err)
		}
	}

	active := rt.ActiveScene()
	rows := make([][]string, 0)
	for _, name := range rt.LoadedSceneNames() {
		marker := ""
		if name == active {
			marker = "*"
		}
		rows = append(rows, []string{name, marker})
	}
	fmt.Fprintln(out, renderTable([]string{"Scene", "Active"}, rows, nil))
	return nil
}

// newProgressBar returns a Reporter drawing to w and a function that
// completes the bar. With quiet set the reporter is nil.
func newProgressBar(w io.Writer, label string, quiet bool) (scenegroup.Reporter, func()) {
	if quiet {
		return nil, func() {}
	}
	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
	report := scenegroup.ReporterFunc(func(v float64) {
		_ = bar.Set(int(v * 100))
	})
	return report, func() { _ = bar.Finish() }
}
