package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/communityzine/magazine-system/internal/api/metrics"
	"github.com/communityzine/magazine-system/internal/core/domain"
	"github.com/communityzine/magazine-system/internal/core/ports"
)

const maxBodyLength = 4000

type submissionService struct {
	repo ports.SubmissionRepository
	log  zerolog.Logger
}

// NewSubmissionService returns a SubmissionService implementation.
func NewSubmissionService(repo ports.SubmissionRepository, log zerolog.Logger) ports.SubmissionService {
	return &submissionService{repo: repo, log: log}
}

// Submit stores a new submission with status pending. The body is immutable
// from here on: moderation changes only the status.
func (s *submissionService) Submit(ctx context.Context, in ports.SubmitInput) (*domain.Submission, error) {
	category := domain.SubmissionCategory(in.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidSubmissionState, in.Category)
	}
	if in.Body == "" || len(in.Body) > maxBodyLength {
		return nil, fmt.Errorf("%w: empty or oversized body", domain.ErrInvalidSubmissionState)
	}

	sub := &domain.Submission{
		AuthorID:  in.AuthorID,
		Category:  category,
		Body:      in.Body,
		Status:    domain.SubmissionPending,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		s.log.Error().Err(err).Str("author_id", in.AuthorID).Msg("failed to create submission")
		return nil, err
	}

	metrics.SubmissionsCreatedTotal.WithLabelValues(string(category)).Inc()
	s.log.Info().Str("submission_id", created.ID).Str("category", string(category)).Msg("submission received")
	return created, nil
}

func (s *submissionService) ListMine(ctx context.Context, authorID string) ([]*domain.Submission, error) {
	return s.repo.ListByAuthor(ctx, authorID)
}

func (s *submissionService) PendingQueue(ctx context.Context) ([]*domain.Submission, error) {
	return s.repo.ListByStatus(ctx, domain.SubmissionPending)
}

// Moderate applies an approve/reject decision. The repository update is
// conditional on the submission still being pending, so two concurrent
// moderators cannot both decide the same piece.
func (s *submissionService) Moderate(ctx context.Context, in ports.ModerateInput) (*domain.Submission, error) {
	var next domain.SubmissionStatus
	switch in.Decision {
	case ports.DecisionApprove:
		next = domain.SubmissionApproved
	case ports.DecisionReject:
		next = domain.SubmissionRejected
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", domain.ErrInvalidSubmissionState, in.Decision)
	}

	now := time.Now().UTC()
	err := s.repo.SetModeration(ctx, in.SubmissionID, domain.SubmissionPending, next, now)
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionNotFound) {
			// Distinguish an unknown id from a submission that already left
			// the pending state.
			existing, findErr := s.repo.FindByID(ctx, in.SubmissionID)
			if findErr != nil {
				return nil, findErr
			}
			return nil, fmt.Errorf("%w: submission is %s", domain.ErrInvalidSubmissionState, existing.Status)
		}
		return nil, err
	}

	metrics.ModerationDecisionsTotal.WithLabelValues(string(in.Decision)).Inc()
	s.log.Info().
		Str("submission_id", in.SubmissionID).
		Str("decision", string(in.Decision)).
		Str("moderator_id", in.ModeratorID).
		Msg("submission moderated")

	return s.repo.FindByID(ctx, in.SubmissionID)
}
