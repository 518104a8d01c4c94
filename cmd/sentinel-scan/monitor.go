package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0xA1M/sentinel-scan/internal/analysis"
	"github.com/0xA1M/sentinel-scan/internal/logging"
	"github.com/0xA1M/sentinel-scan/internal/monitor"
)

var (
	monitorPaths []string
	monitorExts  []string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Monitor directories and stream analysis results",
	Long: `Watches the given directories for created or modified script files,
analyzes each qualifying file, and streams results to stdout as
newline-delimited JSON. The first object is always the monitoring status.
Stops cleanly on SIGINT/SIGTERM.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringSliceVarP(&monitorPaths, "path", "p", nil, "directory to monitor (repeatable)")
	monitorCmd.Flags().StringSliceVarP(&monitorExts, "ext", "e", nil, "file extension to include (repeatable, default from config)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	paths := monitorPaths
	if len(paths) == 0 {
		paths = cfg.Monitor.Paths
	}
	if len(paths) == 0 {
		return fmt.Errorf("no paths to monitor: pass --path or set monitor.paths in config")
	}
	exts := monitorExts
	if len(exts) == 0 {
		exts = cfg.Monitor.Extensions
	}

	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	analyzer := analysis.NewAnalyzer()
	if cfg.Analysis.MaxMatchLength > 0 {
		analyzer.MaxMatchLength = cfg.Analysis.MaxMatchLength
	}

	broadcaster := monitor.NewBroadcaster(cfg.Monitor.SubscriberQueue, log)
	watcher := monitor.NewWatcher(monitor.Config{
		DebounceWindow:  cfg.Monitor.DebounceWindow,
		MaxEventsPerSec: cfg.Monitor.MaxEventsPerSec,
		QueueSize:       cfg.Monitor.QueueSize,
		ReadRetries:     monitor.DefaultConfig().ReadRetries,
	}, analyzer, broadcaster, log)

	report, err := watcher.Start(paths, exts)
	if err != nil {
		return err
	}
	if len(report.InvalidPaths) > 0 {
		log.Warn("some paths were not valid directories", zap.Strings("invalid_paths", report.InvalidPaths))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The feed owns stdout; the first line is the running status.
	err = monitor.StreamFeed(ctx, broadcaster, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Warn("feed terminated", zap.Error(err))
	}

	if err := watcher.Stop(); err != nil {
		return err
	}
	out, _ := json.Marshal(map[string]string{"status": "stopped"})
	fmt.Fprintln(os.Stderr, string(out))
	return nil
}
