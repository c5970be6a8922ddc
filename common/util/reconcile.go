package util

import (
	"log/slog"
	"time"

	"github.com/sunthewhat/multisign-api/common"
	"github.com/sunthewhat/multisign-api/internal/coordinator"
)

const defaultReconcileInterval = 5 * time.Minute

// StartReconcileJob starts a background job that periodically repairs stuck
// signing requests: fully signed requests that never transitioned to
// completed (crash between completion and finalization) and completed
// requests still missing their artifact. It runs the same guarded
// transitions as fix-status, so overlapping with client calls is safe.
func StartReconcileJob(co *coordinator.Coordinator) {
	interval := defaultReconcileInterval
	if common.Config.ReconcileInterval != nil && *common.Config.ReconcileInterval != "" {
		parsed, err := time.ParseDuration(*common.Config.ReconcileInterval)
		if err != nil {
			slog.Warn("Invalid reconcile_interval, using default", "value", *common.Config.ReconcileInterval, "default", interval)
		} else {
			interval = parsed
		}
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Panic occurred in reconcile job", "panic", r)
			}
		}()

		// Run immediately on startup to catch requests stuck across a
		// restart.
		runReconcile(co, interval)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			runReconcile(co, interval)
		}
	}()

	slog.Info("Reconcile job started", "interval", interval)
}

func runReconcile(co *coordinator.Coordinator, maxAge time.Duration) {
	startTime := time.Now()

	repaired, err := co.ReconcileStale(maxAge)
	if err != nil {
		slog.Error("Reconcile run failed", "error", err)
		return
	}

	if repaired > 0 {
		slog.Info("Reconcile run completed", "examined", repaired, "duration", time.Since(startTime))
	}
}
