package model

import (
	"errors"
	"time"
)

// Sentinel values used in place of missing listing fields. Keeping these
// explicit (rather than empty strings) keeps identity derivation stable
// across runs where a field is genuinely absent from the markup.
const (
	ValueNotAvailable   = "N/A"
	NoTitle             = "No Title"
	NoURL               = "No URL"
	NoLocation          = "No Location"
	NoLocationSpecified = "No Location Specified"
)

// WalkRecord is one group-walk listing entry. ID is a content hash derived
// from (DetailsURL, Title, WalkDate) and acts as the primary key, so
// re-ingesting an unchanged listing updates the existing row.
type WalkRecord struct {
	ID          string     `json:"id"`
	GroupName   string     `json:"group_name"`
	Title       string     `json:"title"`
	Difficulty  string     `json:"difficulty"`
	Distance    string     `json:"distance"`
	WalkDate    *time.Time `json:"walk_date,omitempty"`
	Location    string     `json:"location"`
	DetailsURL  string     `json:"details_url"`
	Description string     `json:"description"`
	LastSeen    time.Time  `json:"last_seen,omitempty"`
}

var (
	ErrMissingID         = errors.New("walk record has no id")
	ErrMissingTitle      = errors.New("walk record has no title")
	ErrMissingDetailsURL = errors.New("walk record has no details_url")
)

// Validate checks the fields that identity derivation and upserting depend on.
func (w WalkRecord) Validate() error {
	if w.ID == "" {
		return ErrMissingID
	}
	if w.Title == "" {
		return ErrMissingTitle
	}
	if w.DetailsURL == "" {
		return ErrMissingDetailsURL
	}
	return nil
}
