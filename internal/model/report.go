package model

import "time"

// Run outcomes recorded on a Report.
const (
	StatusOK         = "ok"
	StatusNoData     = "no_data"
	StatusNoEligible = "no_eligible"
)

// Report is the outcome of a single ranking run.
type Report struct {
	RunID       string        `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	RankBy      string        `json:"rank_by"`
	Status      string        `json:"status"`
	Entries     []RankedEntry `json:"entries"`
	Summary     RunSummary    `json:"summary"`
}

// RunSummary collects counters and failures observed during a run.
type RunSummary struct {
	PagesFetched   int      `json:"pages_fetched"`
	PagesFailed    int      `json:"pages_failed"`
	RecordsFetched int      `json:"records_fetched"`
	Malformed      int      `json:"malformed"`
	NoFeeTier      int      `json:"no_fee_tier"`
	Ineligible     int      `json:"ineligible"`
	BelowReserve   int      `json:"below_reserve"`
	Kept           int      `json:"kept"`
	HistoryFetched int      `json:"history_fetched"`
	HistoryFailed  int      `json:"history_failed"`
	Failures       []string `json:"failures,omitempty"`
}
