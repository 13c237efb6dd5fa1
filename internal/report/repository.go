package report

import "context"

// Repository provides storage for community reports. The composition engine
// depends only on List; Add and Moderate serve the submission and moderation
// endpoints.
type Repository interface {
	// List returns all reports for a beach, newest first.
	List(ctx context.Context, beachID int) ([]Report, error)

	// Add stores a new, unmoderated report.
	Add(ctx context.Context, r Report) error

	// Moderate records the one-time moderation decision for a report.
	Moderate(ctx context.Context, id string, approved bool) error
}
