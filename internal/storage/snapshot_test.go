package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncsvc "github.com/smykkeguiden/feedsync/internal/service/sync"
)

func testReport(start time.Time, sites ...syncsvc.SyncReport) syncsvc.RunReport {
	report := syncsvc.RunReport{StartedAt: start}
	for _, site := range sites {
		report.Sites = append(report.Sites, site)
		report.TotalSites++
		if site.Success {
			report.SuccessfulSites++
		}
	}
	return report
}

func TestSaveRunReportWritesJSON(t *testing.T) {
	store, err := NewSnapshotStore(t.TempDir(), 5)
	require.NoError(t, err)

	start := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	report := testReport(start,
		syncsvc.SyncReport{SiteID: "smykkeguiden", Success: true, Inserted: 120},
		syncsvc.SyncReport{SiteID: "guldguiden", Success: true, Inserted: 80},
	)

	path, err := store.SaveRunReport(report)
	require.NoError(t, err)
	assert.Equal(t, "run_20260828_060000_all_sites_ok.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded syncsvc.RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 2, decoded.TotalSites)
	assert.Equal(t, 120, decoded.Sites[0].Inserted)
}

func TestSnapshotFilenameReflectsScopeAndStatus(t *testing.T) {
	start := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)

	single := testReport(start, syncsvc.SyncReport{SiteID: "smykkeguiden", Success: true})
	assert.Equal(t, "run_20260828_060000_smykkeguiden_ok.json", snapshotFilename(single))

	failed := testReport(start,
		syncsvc.SyncReport{SiteID: "smykkeguiden", Success: true},
		syncsvc.SyncReport{SiteID: "guldguiden", Success: false},
	)
	assert.Equal(t, "run_20260828_060000_all_sites_failed.json", snapshotFilename(failed))

	// Site IDs with unfriendly characters are flattened to snake case.
	odd := testReport(start, syncsvc.SyncReport{SiteID: "MitSmykke-DK", Success: true})
	assert.Equal(t, "run_20260828_060000_mit_smykke_dk_ok.json", snapshotFilename(odd))
}

func TestPruneKeepsOnlyNewestSnapshots(t *testing.T) {
	dir := t.TempDir()
	store, err := NewSnapshotStore(dir, 2)
	require.NoError(t, err)

	base := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		report := testReport(base.Add(time.Duration(i)*time.Hour),
			syncsvc.SyncReport{SiteID: "smykkeguiden", Success: true})
		_, err := store.SaveRunReport(report)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "run_20260828_080000_smykkeguiden_ok.json", entries[0].Name())
	assert.Equal(t, "run_20260828_090000_smykkeguiden_ok.json", entries[1].Name())
}

func TestNewSnapshotStoreValidation(t *testing.T) {
	_, err := NewSnapshotStore("", 5)
	assert.Error(t, err)

	_, err = NewSnapshotStore(t.TempDir(), 0)
	assert.Error(t, err)
}
