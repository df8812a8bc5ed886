package sync

import "time"

// FeedResult is the per-feed outcome within one site run, kept for
// observability: the trigger response lists every feed with its count.
type FeedResult struct {
	URL          string `json:"url"`
	Success      bool   `json:"success"`
	ProductCount int    `json:"productCount"`
	Error        string `json:"error,omitempty"`
}

// WriteResult aggregates the Sync Writer's counters for one site.
type WriteResult struct {
	Inserted int `json:"inserted"`
	Deleted  int `json:"deleted"`
	Errors   int `json:"errors"`
}

// SyncReport is the outcome of one site's synchronization.
type SyncReport struct {
	SiteID   string `json:"siteId"`
	SiteName string `json:"siteName"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`

	Fetched    int `json:"fetched"`
	Normalized int `json:"normalized"`
	Rejected   int `json:"rejected"`
	Inserted   int `json:"inserted"`
	Deleted    int `json:"deleted"`
	Errors     int `json:"errors"`

	Feeds []FeedResult `json:"feeds"`

	DurationMS int64 `json:"durationMs"`
}

// RunReport is the aggregate outcome of one full run across all sites.
type RunReport struct {
	StartedAt       time.Time    `json:"startedAt"`
	TotalSites      int          `json:"totalSites"`
	SuccessfulSites int          `json:"successfulSites"`
	TotalFetched    int          `json:"totalFetched"`
	TotalInserted   int          `json:"totalInserted"`
	TotalErrors     int          `json:"totalErrors"`
	Aborted         bool         `json:"aborted"`
	Sites           []SyncReport `json:"sites"`
	DurationMS      int64        `json:"durationMs"`
}

// addSite folds one site report into the run aggregate.
func (r *RunReport) addSite(site SyncReport) {
	r.Sites = append(r.Sites, site)
	r.TotalSites++
	if site.Success {
		r.SuccessfulSites++
	}
	r.TotalFetched += site.Fetched
	r.TotalInserted += site.Inserted
	r.TotalErrors += site.Errors
}
