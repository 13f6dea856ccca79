package constants

import "time"

// DocumentStatus is the canonical status for rows in documents.
type DocumentStatus string

// Stable values (store these exact strings in DB).
const (
	StatusValid    DocumentStatus = "valid"    // not expired, not close to expiry
	StatusExpiring DocumentStatus = "expiring" // expires within the warning window
	StatusExpired  DocumentStatus = "expired"  // expiration date in the past
	StatusPending  DocumentStatus = "pending"  // awaiting manual approval
)

// ExpiryWarningWindow is how far ahead of expiration a document is flagged
// as expiring.
const ExpiryWarningWindow = 30 * 24 * time.Hour

// StatusFor derives a document status from its expiration date. Documents
// without an expiration date are always valid.
func StatusFor(expirationDate *time.Time, now time.Time) DocumentStatus {
	if expirationDate == nil {
		return StatusValid
	}
	switch {
	case expirationDate.Before(now):
		return StatusExpired
	case expirationDate.Sub(now) <= ExpiryWarningWindow:
		return StatusExpiring
	default:
		return StatusValid
	}
}
