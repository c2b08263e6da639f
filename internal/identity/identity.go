// Package identity derives the stable primary key for a walk listing.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// NoDate is hashed in place of the walk date when no date could be parsed.
const NoDate = "NoDate"

// Derive returns the hex-encoded SHA-256 of the identity triple
// (detailsURL, title, walkDate). The same triple always yields the same id,
// which is what makes re-ingestion an update rather than a duplicate insert.
func Derive(detailsURL, title string, walkDate *time.Time) string {
	datePart := NoDate
	if walkDate != nil {
		datePart = walkDate.UTC().Format(time.RFC3339)
	}
	sum := sha256.Sum256([]byte(detailsURL + "-" + title + "-" + datePart))
	return hex.EncodeToString(sum[:])
}
