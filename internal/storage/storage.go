// Package storage persists the single durable fact the application keeps
// across sessions: whether the declaration has been submitted.
package storage

import (
	"context"
)

// SubmittedKey names the submission flag in every backend.
const SubmittedKey = "tax_deduction_submitted"

// SubmissionStore reads and writes the submission flag. The wizard reads
// it once at session start and writes it once on final confirmation.
type SubmissionStore interface {
	Submitted(ctx context.Context) (bool, error)
	SetSubmitted(ctx context.Context, submitted bool) error
}
