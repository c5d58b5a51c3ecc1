package domain

import "time"

// Magazine is an issue: an ordered collection of approved submissions.
// Invariant: PublishedAt is non-nil exactly when IsPublic is true. Issues are
// never deleted, only superseded by later ones.
type Magazine struct {
	ID            string     `json:"id" bson:"_id,omitempty"`
	Title         string     `json:"title" bson:"title"`
	SubmissionIDs []string   `json:"submission_ids" bson:"submission_ids"`
	IsPublic      bool       `json:"is_public" bson:"is_public"`
	CreatedAt     time.Time  `json:"created_at" bson:"created_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty" bson:"published_at,omitempty"`
}

// Statistics is a derived view over the repositories, recomputed on every
// request and never cached.
type Statistics struct {
	DraftCount          int64 `json:"draft_count"`
	PublishedCount      int64 `json:"published_count"`
	PendingSubmissions  int64 `json:"pending_submissions"`
	ApprovedSubmissions int64 `json:"approved_submissions"`
	RejectedSubmissions int64 `json:"rejected_submissions"`
}
