package research

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/halcyon-research/equity-cli/internal/store"
)

// ReportOutcome records what happened when a completed report was
// persisted. Persistence is best effort: the pipeline acknowledges the
// outcome in its logs but never fails a run over it.
type ReportOutcome struct {
	Stage        Stage
	Symbol       string
	CacheWritten bool
	SnapshotPath string
	SnapshotErr  error
}

// persistReport writes a completed report to the cache and drops a JSON
// snapshot under the reports directory.
func persistReport[T any](ctx context.Context, st store.Store, reportsDir string, stage Stage, symbol string, value T, ttl time.Duration) ReportOutcome {
	outcome := ReportOutcome{Stage: stage, Symbol: symbol}
	outcome.CacheWritten = putCached(ctx, st, stage, symbol, value, ttl)
	outcome.SnapshotPath, outcome.SnapshotErr = writeSnapshot(reportsDir, stage, symbol, value)
	return outcome
}

// writeSnapshot serializes a report to reports/{type}_{symbol}_{ts}.json.
func writeSnapshot[T any](reportsDir string, stage Stage, symbol string, value T) (string, error) {
	if reportsDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(reportsDir, 0o755); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_%s.json", stage, symbol, time.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(reportsDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
