package commands

import (
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/teranos/tsclientgen/am"
	"github.com/teranos/tsclientgen/logger"
)

// WatchCmd regenerates on change
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate whenever the IR or config changes",
	Long: `Generate once, then watch generator.ir (and the config file, if any) and
regenerate after each burst of changes. Failed runs are logged and leave the
previous output in place. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	log := logger.ComponentLogger("watch")

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		if v, err := am.NewViper(""); err == nil {
			configPath = v.ConfigFileUsed()
		}
	}
	files := []string{cfg.Generator.IR}
	if configPath != "" {
		files = append(files, configPath)
	}

	limit := rate.Inf
	if cfg.Watch.MaxPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.Watch.MaxPerMinute))
	}
	limiter := rate.NewLimiter(limit, 1)

	triggers := make(chan []string, 1)
	regenerate := func() {
		// Config edits take effect on the next run
		current, err := loadConfig(cmd)
		if err != nil {
			log.Errorw("Config invalid, keeping previous output", logger.FieldError, err)
			return
		}
		if _, err := newPipeline(current, newSink(cmd, current)).run(ctx, afero.NewOsFs(), current.Generator.Output, current.Generator.Prune); err != nil {
			log.Errorw("Generation failed, keeping previous output", logger.FieldError, err)
		}
	}

	regenerate()

	w, err := am.NewWatcher(files, cfg.DebouncePeriod(), func(paths []string) {
		select {
		case triggers <- paths:
		default:
			// a run is already queued
		}
	})
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()
	log.Infow("Watching for changes", logger.FieldCount, len(files))

	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-triggers:
			if err := limiter.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			log.Infow("Regenerating", "paths", paths)
			regenerate()
		}
	}
}
