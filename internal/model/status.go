package model

import "time"

// Run status values recorded after each ingestion attempt.
const (
	RunStatusSuccess = "success"
	RunStatusFailure = "failure"
)

// RunStatus is the singleton row describing the most recent ingestion
// attempt. LastSuccessfulRun only advances on success; a failed run keeps
// the previous timestamp and records the error message instead.
type RunStatus struct {
	LastSuccessfulRun *time.Time `json:"last_successful_run,omitempty"`
	LastRunStatus     string     `json:"last_run_status"`
	LastErrorMessage  *string    `json:"last_error_message,omitempty"`
}

// Schema is the SQL schema for the walks and scraper_status tables.
const Schema = `
CREATE TABLE IF NOT EXISTS walks (
    id TEXT PRIMARY KEY,
    group_name TEXT,
    title TEXT,
    difficulty TEXT,
    distance TEXT,
    walk_date TIMESTAMPTZ,
    location TEXT,
    details_url TEXT,
    description TEXT,
    last_seen TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS scraper_status (
    id INT PRIMARY KEY DEFAULT 1,
    last_successful_run TIMESTAMPTZ,
    last_run_status TEXT NOT NULL,
    last_error_message TEXT
);
`
