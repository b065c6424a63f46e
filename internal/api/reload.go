package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/MikeSquared-Agency/FleetShift/internal/dataset"
	"github.com/MikeSquared-Agency/FleetShift/internal/hermes"
)

// Reloader swaps in a fresh snapshot and announces the outcome. It backs
// both the admin endpoint and reload requests arriving over hermes.
type Reloader struct {
	snapshots Snapshots
	hermes    hermes.Client
	logger    *slog.Logger
}

func NewReloader(s Snapshots, h hermes.Client, logger *slog.Logger) *Reloader {
	return &Reloader{snapshots: s, hermes: h, logger: logger}
}

func (rl *Reloader) Reload(ctx context.Context, triggeredBy string) (*dataset.Snapshot, error) {
	var previousID string
	if prev, err := rl.snapshots.Current(); err == nil {
		previousID = prev.ID.String()
	}

	snap, err := rl.snapshots.Reload(ctx)
	if err != nil {
		datasetReloads.WithLabelValues("failed").Inc()
		rl.logger.Error("dataset reload failed, keeping previous snapshot",
			"error", err, "previous_snapshot_id", previousID, "triggered_by", triggeredBy)
		hermes.Emit(rl.hermes, rl.logger, hermes.SubjectDatasetReloadFailed, hermes.DatasetReloadFailedEvent{
			Error:       err.Error(),
			TriggeredBy: triggeredBy,
			Timestamp:   time.Now().UTC(),
		})
		return nil, err
	}

	datasetReloads.WithLabelValues("ok").Inc()
	rl.logger.Info("dataset reloaded",
		"snapshot_id", snap.ID, "previous_snapshot_id", previousID,
		"source", snap.Source, "triggered_by", triggeredBy)
	hermes.Emit(rl.hermes, rl.logger, hermes.SubjectDatasetReloaded(snap.ID.String()), hermes.DatasetReloadedEvent{
		SnapshotID:  snap.ID.String(),
		PreviousID:  previousID,
		Source:      snap.Source,
		Operators:   len(snap.Operators),
		Scenarios:   len(snap.Scenarios),
		TriggeredBy: triggeredBy,
		LoadedAt:    snap.LoadedAt,
	})
	return snap, nil
}

// HandleRequest is a hermes subscription handler for
// hermes.SubjectDatasetReloadRequest.
func (rl *Reloader) HandleRequest(subject string, data []byte) {
	var req hermes.DatasetReloadRequest
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			rl.logger.Warn("ignoring malformed reload request", "subject", subject, "error", err)
			return
		}
	}
	triggeredBy := req.RequestedBy
	if triggeredBy == "" {
		triggeredBy = "hermes"
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	_, _ = rl.Reload(ctx, triggeredBy)
}
