package domain

import "time"

// SubmissionCategory classifies a member submission into one of the fixed
// magazine sections.
type SubmissionCategory string

const (
	CategoryMyNews      SubmissionCategory = "my_news"
	CategorySayingHello SubmissionCategory = "saying_hello"
	CategoryMySay       SubmissionCategory = "my_say"
)

// Categories lists every valid submission category.
var Categories = []SubmissionCategory{CategoryMyNews, CategorySayingHello, CategoryMySay}

// Valid reports whether c is one of the enumerated categories.
func (c SubmissionCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// SubmissionStatus is the moderation state of a submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// validModerations defines the allowed moderation transitions. Approved and
// rejected are both terminal.
var validModerations = map[SubmissionStatus][]SubmissionStatus{
	SubmissionPending: {SubmissionApproved, SubmissionRejected},
}

// CanTransitionTo reports whether a moderation decision moving current status
// to next is valid.
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	for _, allowed := range validModerations[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Submission is a single piece of member-authored content. The body is
// immutable after creation; only the moderation status and magazine
// assignment change, and only through SubmissionService / MagazineService.
type Submission struct {
	ID          string             `json:"id" bson:"_id,omitempty"`
	AuthorID    string             `json:"author_id" bson:"author_id"`
	Category    SubmissionCategory `json:"category" bson:"category"`
	Body        string             `json:"body" bson:"body"`
	Status      SubmissionStatus   `json:"status" bson:"status"`
	MagazineID  string             `json:"magazine_id,omitempty" bson:"magazine_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	ModeratedAt *time.Time         `json:"moderated_at,omitempty" bson:"moderated_at,omitempty"`
}
