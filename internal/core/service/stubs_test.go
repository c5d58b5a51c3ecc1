package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests. The conditional
// operations mirror the real Mongo filters so race behaviour matches.
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	seq     int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	r.seq++
	clone := *user
	clone.ID = fmt.Sprintf("u%04d", r.seq)
	r.byID[clone.ID] = &clone
	r.byEmail[clone.Email] = &clone
	out := clone
	return &out, nil
}

func (r *stubUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserRepo) SetDisabled(_ context.Context, id string, disabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Disabled = disabled
	return nil
}

func (r *stubUserRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// stubRefreshStore mimics the Redis store: Consume is get-and-delete under
// one lock, so only one concurrent caller can win a given hash.
type stubRefreshStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newStubRefreshStore() *stubRefreshStore {
	return &stubRefreshStore{tokens: make(map[string]string)}
}

func (s *stubRefreshStore) Save(_ context.Context, tokenHash, userID string, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = userID
	return nil
}

func (s *stubRefreshStore) Consume(_ context.Context, tokenHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID := s.tokens[tokenHash]
	delete(s.tokens, tokenHash)
	return userID, nil
}

func (s *stubRefreshStore) Delete(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, tokenHash)
	return nil
}

type stubSubmissionRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Submission
	seq  int
}

func newStubSubmissionRepo() *stubSubmissionRepo {
	return &stubSubmissionRepo{byID: make(map[string]*domain.Submission)}
}

func (r *stubSubmissionRepo) Create(_ context.Context, s *domain.Submission) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := *s
	clone.ID = fmt.Sprintf("s%04d", r.seq)
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubSubmissionRepo) FindByID(_ context.Context, id string) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSubmissionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSubmissionRepo) ListByAuthor(_ context.Context, authorID string) ([]*domain.Submission, error) {
	return r.filter(func(s *domain.Submission) bool { return s.AuthorID == authorID }), nil
}

func (r *stubSubmissionRepo) ListByStatus(_ context.Context, status domain.SubmissionStatus) ([]*domain.Submission, error) {
	return r.filter(func(s *domain.Submission) bool { return s.Status == status }), nil
}

func (r *stubSubmissionRepo) ListByIDs(_ context.Context, ids []string) ([]*domain.Submission, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return r.filter(func(s *domain.Submission) bool { return want[s.ID] }), nil
}

func (r *stubSubmissionRepo) filter(keep func(*domain.Submission) bool) []*domain.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Submission
	for _, s := range r.byID {
		if keep(s) {
			clone := *s
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubSubmissionRepo) SetModeration(_ context.Context, id string, from, to domain.SubmissionStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok || s.Status != from {
		return domain.ErrSubmissionNotFound
	}
	s.Status = to
	s.ModeratedAt = &at
	return nil
}

func (r *stubSubmissionRepo) ClaimForMagazine(_ context.Context, submissionID, magazineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[submissionID]
	if !ok || s.Status != domain.SubmissionApproved || s.MagazineID != "" {
		return domain.ErrSubmissionNotFound
	}
	s.MagazineID = magazineID
	return nil
}

func (r *stubSubmissionRepo) ReleaseClaim(_ context.Context, submissionID, magazineID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.byID[submissionID]; ok && s.MagazineID == magazineID {
		s.MagazineID = ""
	}
	return nil
}

func (r *stubSubmissionRepo) CountByStatus(_ context.Context, status domain.SubmissionStatus) (int64, error) {
	return int64(len(r.filter(func(s *domain.Submission) bool { return s.Status == status }))), nil
}

type stubMagazineRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Magazine
	seq  int
}

func newStubMagazineRepo() *stubMagazineRepo {
	return &stubMagazineRepo{byID: make(map[string]*domain.Magazine)}
}

func (r *stubMagazineRepo) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return fmt.Sprintf("m%04d", r.seq)
}

func (r *stubMagazineRepo) Create(_ context.Context, m *domain.Magazine) (*domain.Magazine, error) {
	clone := *m
	if clone.ID == "" {
		clone.ID = r.NewID()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubMagazineRepo) FindByID(_ context.Context, id string) (*domain.Magazine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrMagazineNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMagazineRepo) ListDrafts(_ context.Context) ([]*domain.Magazine, error) {
	return r.filter(func(m *domain.Magazine) bool { return !m.IsPublic }), nil
}

func (r *stubMagazineRepo) ListPublished(_ context.Context) ([]*domain.Magazine, error) {
	return r.filter(func(m *domain.Magazine) bool { return m.IsPublic }), nil
}

// LatestPublished applies the same ordering as the Mongo query: published_at
// descending, id descending as tie-break.
func (r *stubMagazineRepo) LatestPublished(_ context.Context) (*domain.Magazine, error) {
	published := r.filter(func(m *domain.Magazine) bool { return m.IsPublic })
	if len(published) == 0 {
		return nil, domain.ErrMagazineNotFound
	}
	sort.Slice(published, func(i, j int) bool {
		if !published[i].PublishedAt.Equal(*published[j].PublishedAt) {
			return published[i].PublishedAt.After(*published[j].PublishedAt)
		}
		return published[i].ID > published[j].ID
	})
	return published[0], nil
}

func (r *stubMagazineRepo) MarkPublished(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return domain.ErrMagazineNotFound
	}
	if m.IsPublic {
		return domain.ErrAlreadyPublished
	}
	m.IsPublic = true
	m.PublishedAt = &at
	return nil
}

func (r *stubMagazineRepo) CountDrafts(_ context.Context) (int64, error) {
	return int64(len(r.filter(func(m *domain.Magazine) bool { return !m.IsPublic }))), nil
}

func (r *stubMagazineRepo) CountPublished(_ context.Context) (int64, error) {
	return int64(len(r.filter(func(m *domain.Magazine) bool { return m.IsPublic }))), nil
}

func (r *stubMagazineRepo) filter(keep func(*domain.Magazine) bool) []*domain.Magazine {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Magazine
	for _, m := range r.byID {
		if keep(m) {
			clone := *m
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
