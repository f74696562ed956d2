package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsorter/docsorter/internal/ingest"
	"github.com/docsorter/docsorter/internal/pipeline"
)

var watchInitialScan bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch inbox directories and process new files",
	Long: `Watches the configured inbox directories (INBOX_DIRS) recursively and
runs every new or changed document through the pipeline. Runs until
interrupted; in-flight work drains on shutdown.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		queue := pipeline.NewQueue(a.proc, a.logger,
			pipeline.WithWorkers(a.cfg.Pipeline.Workers),
			pipeline.WithQueueSize(a.cfg.Pipeline.QueueSize),
			pipeline.WithProcessTimeout(a.cfg.Pipeline.ProcessTimeout),
		)

		paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
			Roots:       a.cfg.Filing.InboxDirs,
			InitialScan: watchInitialScan,
			Debounce:    a.cfg.Filing.Debounce,
		}, a.logger)
		if err != nil {
			return err
		}

		a.logger.Info("watch.started", "roots", a.cfg.Filing.InboxDirs)
		for {
			select {
			case <-ctx.Done():
				drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				queue.Shutdown(drainCtx)
				cancel()
				return nil
			case werr, ok := <-errs:
				if ok {
					a.logger.Error("watch.watcher_error", "error", werr)
				}
			case path, ok := <-paths:
				if !ok {
					return nil
				}
				res, err := a.ing.IngestPath(ctx, path)
				if err != nil {
					a.logger.Error("watch.ingest_failed", "path", path, "error", err)
					continue
				}
				if res.Deduplicated {
					continue
				}
				_ = queue.Enqueue(ctx, pipeline.Job{DocumentID: res.DocumentID})
			}
		}
	},
}

func init() {
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", true, "process files already present in the inbox")
	rootCmd.AddCommand(watchCmd)
}
