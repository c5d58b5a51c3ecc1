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

type magazineService struct {
	magazines   ports.MagazineRepository
	submissions ports.SubmissionRepository
	log         zerolog.Logger
}

// NewMagazineService returns a MagazineService implementation.
func NewMagazineService(magazines ports.MagazineRepository, submissions ports.SubmissionRepository, log zerolog.Logger) ports.MagazineService {
	return &magazineService{magazines: magazines, submissions: submissions, log: log}
}

func (s *magazineService) ListDrafts(ctx context.Context) ([]*domain.Magazine, error) {
	return s.magazines.ListDrafts(ctx)
}

// AssembleDraft claims each submission with a conditional update (approved
// and unassigned) against a pre-minted issue id, and only inserts the draft
// once every claim holds. The issue document does not exist while claims are
// in flight, so a concurrent publish on the id sees ErrMagazineNotFound and
// a failed assembly has nothing to publish. On any failure every claim made
// so far is released, so a losing call leaves no partial state.
func (s *magazineService) AssembleDraft(ctx context.Context, title string, submissionIDs []string) (*domain.Magazine, error) {
	if len(submissionIDs) == 0 {
		return nil, fmt.Errorf("%w: draft needs at least one submission", domain.ErrInvalidSubmissionState)
	}

	draftID := s.magazines.NewID()

	claimed := make([]string, 0, len(submissionIDs))
	for _, id := range submissionIDs {
		if err := s.submissions.ClaimForMagazine(ctx, id, draftID); err != nil {
			s.releaseClaims(ctx, claimed, draftID)
			if errors.Is(err, domain.ErrSubmissionNotFound) {
				return nil, s.classifyClaimFailure(ctx, id)
			}
			return nil, err
		}
		claimed = append(claimed, id)
	}

	created, err := s.magazines.Create(ctx, &domain.Magazine{
		ID:            draftID,
		Title:         title,
		SubmissionIDs: submissionIDs,
		IsPublic:      false,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		s.releaseClaims(ctx, claimed, draftID)
		return nil, err
	}

	s.log.Info().
		Str("magazine_id", created.ID).
		Int("submissions", len(submissionIDs)).
		Msg("draft assembled")
	return created, nil
}

// classifyClaimFailure decides why a conditional claim matched nothing:
// unknown id, wrong moderation status, or already owned by another issue.
func (s *magazineService) classifyClaimFailure(ctx context.Context, submissionID string) error {
	sub, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.MagazineID != "" {
		return fmt.Errorf("%w: submission %s", domain.ErrAlreadyAssigned, submissionID)
	}
	return fmt.Errorf("%w: submission %s is %s", domain.ErrInvalidSubmissionState, submissionID, sub.Status)
}

// releaseClaims compensates a failed assembly; the issue document was never
// inserted, so releasing the claims restores the world completely.
func (s *magazineService) releaseClaims(ctx context.Context, claimed []string, magazineID string) {
	for _, id := range claimed {
		if err := s.submissions.ReleaseClaim(ctx, id, magazineID); err != nil {
			s.log.Error().Err(err).
				Str("submission_id", id).
				Str("magazine_id", magazineID).
				Msg("failed to release claim during rollback")
		}
	}
}

// Publish flips a draft public exactly once. The repository's conditional
// update decides the winner between concurrent calls; the loser observes
// ErrAlreadyPublished. There is no unpublish.
func (s *magazineService) Publish(ctx context.Context, magazineID string) (*domain.Magazine, error) {
	now := time.Now().UTC()
	if err := s.magazines.MarkPublished(ctx, magazineID, now); err != nil {
		return nil, err
	}

	metrics.IssuesPublishedTotal.Inc()
	s.log.Info().Str("magazine_id", magazineID).Time("published_at", now).Msg("issue published")

	return s.magazines.FindByID(ctx, magazineID)
}

// LatestPublic returns a nil issue (not an error) when nothing has ever been
// published; the handler falls back to the archive listing. The issue's
// submissions come back in the order the moderator arranged them.
func (s *magazineService) LatestPublic(ctx context.Context) (*domain.Magazine, []*domain.Submission, error) {
	m, err := s.magazines.LatestPublished(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrMagazineNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	subs, err := s.submissions.ListByIDs(ctx, m.SubmissionIDs)
	if err != nil {
		return nil, nil, err
	}
	return m, orderByIssue(m.SubmissionIDs, subs), nil
}

// orderByIssue rearranges fetched submissions to follow the issue's
// submission_ids; the repository returns them in its own sort order.
func orderByIssue(ids []string, subs []*domain.Submission) []*domain.Submission {
	byID := make(map[string]*domain.Submission, len(subs))
	for _, sub := range subs {
		byID[sub.ID] = sub
	}
	out := make([]*domain.Submission, 0, len(ids))
	for _, id := range ids {
		if sub, ok := byID[id]; ok {
			out = append(out, sub)
		}
	}
	return out
}

func (s *magazineService) ListPublic(ctx context.Context) ([]*domain.Magazine, error) {
	return s.magazines.ListPublished(ctx)
}

// Statistics recomputes every count from the repositories at call time.
func (s *magazineService) Statistics(ctx context.Context) (*domain.Statistics, error) {
	drafts, err := s.magazines.CountDrafts(ctx)
	if err != nil {
		return nil, err
	}
	published, err := s.magazines.CountPublished(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.submissions.CountByStatus(ctx, domain.SubmissionPending)
	if err != nil {
		return nil, err
	}
	approved, err := s.submissions.CountByStatus(ctx, domain.SubmissionApproved)
	if err != nil {
		return nil, err
	}
	rejected, err := s.submissions.CountByStatus(ctx, domain.SubmissionRejected)
	if err != nil {
		return nil, err
	}

	return &domain.Statistics{
		DraftCount:          drafts,
		PublishedCount:      published,
		PendingSubmissions:  pending,
		ApprovedSubmissions: approved,
		RejectedSubmissions: rejected,
	}, nil
}

func (s *magazineService) Dashboard(ctx context.Context) (*ports.DashboardResult, error) {
	drafts, err := s.magazines.ListDrafts(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.Statistics(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.DashboardResult{Magazines: drafts, Stats: stats}, nil
}
