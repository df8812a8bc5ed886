// Package storage persists run report snapshots as JSON files so the most
// recent runs can be inspected after the fact without database access.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	apperrors "github.com/smykkeguiden/feedsync/internal/pkg/errors"
	syncsvc "github.com/smykkeguiden/feedsync/internal/service/sync"
	applog "github.com/smykkeguiden/feedsync/pkg/log"
)

const component = "storage.snapshot"

// timestampLayout orders snapshot files lexicographically by start time.
const timestampLayout = "20060102_150405"

// SnapshotStore writes run reports into a directory, keeping only the most
// recent maxKept files.
type SnapshotStore struct {
	dir     string
	maxKept int
}

// NewSnapshotStore creates the store and its directory.
func NewSnapshotStore(dir string, maxKept int) (*SnapshotStore, error) {
	if dir == "" {
		return nil, apperrors.New(apperrors.InvalidInput, "snapshot directory must not be empty")
	}
	if maxKept < 1 {
		return nil, apperrors.Newf(apperrors.InvalidInput, "snapshot retention must be at least 1, got %d", maxKept)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.System, "creating snapshot directory '%s' failed", dir)
	}
	return &SnapshotStore{dir: dir, maxKept: maxKept}, nil
}

// SaveRunReport writes the report as pretty-printed JSON and prunes old
// snapshots. It returns the path of the written file.
func (s *SnapshotStore) SaveRunReport(report syncsvc.RunReport) (string, error) {
	name := snapshotFilename(report)
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.Internal, "encoding run report failed")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.Wrapf(err, apperrors.System, "writing run report snapshot '%s' failed", path)
	}

	s.prune()
	return path, nil
}

// snapshotFilename derives a stable, filesystem-safe name from the report.
// Site names come from operator config and may hold Danish letters and
// spaces; strcase flattens them into snake case ASCII.
func snapshotFilename(report syncsvc.RunReport) string {
	scope := "all_sites"
	if len(report.Sites) == 1 {
		scope = strcase.ToSnake(report.Sites[0].SiteID)
	}

	status := "ok"
	if report.SuccessfulSites < report.TotalSites || report.Aborted {
		status = "failed"
	}

	return strings.Join([]string{
		"run",
		report.StartedAt.UTC().Format(timestampLayout),
		scope,
		status,
	}, "_") + ".json"
}

// prune deletes the oldest snapshots beyond the retention count. Pruning is
// best effort: a failure only logs, the new snapshot is already on disk.
func (s *SnapshotStore) prune() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		applog.WithComponent(component).Warnf("listing snapshot directory failed: %v", err)
		return
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) <= s.maxKept {
		return
	}

	// Filenames embed the start timestamp, so sorting them sorts by age.
	sort.Strings(names)
	for _, name := range names[:len(names)-s.maxKept] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			applog.WithComponent(component).Warnf("removing old snapshot '%s' failed: %v", name, err)
		}
	}
}
