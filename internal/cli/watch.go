package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/roach88/typematrix/internal/harness"
	"github.com/roach88/typematrix/internal/report"
	"github.com/roach88/typematrix/internal/store"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Debounce time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <plan-file>",
		Short: "Re-run a plan file whenever it changes",
		Long: `Run a plan file, then run it again every time the file is written.
A plan that fails to parse is reported and the previous run stands until
the next change. Stops on Ctrl-C.

In json mode every check is streamed as one JSON line, followed by the
run's summary envelope.

Examples:
  typematrix watch ./plans/custom.yaml
  typematrix watch ./plans/custom.yaml --format json --target arm`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", 100*time.Millisecond, "quiet period before a change triggers a run")

	return cmd
}

func watchPlan(opts *WatchOptions, planFile string, cmd *cobra.Command) error {
	path, err := filepath.Abs(planFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid plan path", err)
	}
	if _, err := harness.LoadPlan(path); err != nil {
		return WrapExitError(ExitCommandError, "failed to load plan file", err)
	}

	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	ctx, stop := signalContext(cmd, logger)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to start file watcher", err)
	}
	defer watcher.Close()

	// Editors often replace the file instead of writing it, so the
	// directory is watched and events are filtered by name.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return WrapExitError(ExitCommandError, "failed to watch plan directory", err)
	}

	st, err := store.Open()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open result ledger", err)
	}
	defer st.Close()

	out := opts.formatter(cmd)
	var reporter report.Reporter
	if opts.Format == "json" {
		reporter = report.NewJSONLines(cmd.OutOrStdout())
	} else {
		reporter = report.NewText(cmd.OutOrStdout(), opts.Verbose)
	}
	runner := opts.newRunner(reporter, st, logger)

	runOnce := func() error {
		plan, err := harness.LoadPlan(path)
		if err != nil {
			logger.Warn("plan rejected", "file", path, "error", err)
			return out.Error("PLAN_INVALID", err.Error(), map[string]string{"file": path})
		}
		if opts.Format == "text" {
			fmt.Fprintf(cmd.OutOrStdout(), "== %s on %s ==\n", plan.Name, runner.Target().Arch)
		}
		rep, err := executePlan(ctx, runner, st, plan)
		if err != nil {
			return err
		}
		rep.Transcript = nil
		if opts.Format == "json" {
			err = out.SuccessRun(rep.RunID, rep)
		} else {
			err = writePlanReport(cmd.OutOrStdout(), rep)
		}
		if opts.afterRun != nil {
			opts.afterRun(rep)
		}
		return err
	}

	logger.Info("watching plan", "file", path)
	if err := runOnce(); err != nil {
		return err
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				logger.Debug("plan changed", "op", ev.Op.String())
				debounce = time.After(opts.Debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-debounce:
			debounce = nil
			if err := runOnce(); err != nil {
				if GetExitCode(err) == ExitFailure && ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
