package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/communityzine/magazine-system/internal/core/domain"
)

const collectionSubmissions = "submissions"

type SubmissionRepository struct {
	col *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database) *SubmissionRepository {
	return &SubmissionRepository{col: db.Collection(collectionSubmissions)}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.Submission) (*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *s
	doc.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, translateErr(err)
	}
	return &doc, nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Submission
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, translateErr(err)
	}
	return &s, nil
}

func (r *SubmissionRepository) ListByAuthor(ctx context.Context, authorID string) ([]*domain.Submission, error) {
	return r.list(ctx, bson.M{"author_id": authorID})
}

func (r *SubmissionRepository) ListByStatus(ctx context.Context, status domain.SubmissionStatus) ([]*domain.Submission, error) {
	return r.list(ctx, bson.M{"status": status})
}

func (r *SubmissionRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Submission, error) {
	return r.list(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *SubmissionRepository) list(ctx context.Context, filter bson.M) ([]*domain.Submission, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateErr(err)
	}
	defer cur.Close(ctx)

	var out []*domain.Submission
	if err := cur.All(ctx, &out); err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

// SetModeration transitions status from->to as a conditional update. The
// filter includes the expected current status, so concurrent moderators
// racing on the same submission produce exactly one winner.
func (r *SubmissionRepository) SetModeration(ctx context.Context, id string, from, to domain.SubmissionStatus, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "moderated_at": at}},
	)
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

// ClaimForMagazine assigns an approved, unassigned submission to a magazine.
// The state condition lives in the filter: two concurrent assemblies cannot
// both claim the same submission.
func (r *SubmissionRepository) ClaimForMagazine(ctx context.Context, submissionID, magazineID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{
			"_id":    submissionID,
			"status": domain.SubmissionApproved,
			"$or": bson.A{
				bson.M{"magazine_id": bson.M{"$exists": false}},
				bson.M{"magazine_id": ""},
			},
		},
		bson.M{"$set": bson.M{"magazine_id": magazineID}},
	)
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

// ReleaseClaim undoes a claim, but only if this magazine still owns it.
func (r *SubmissionRepository) ReleaseClaim(ctx context.Context, submissionID, magazineID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": submissionID, "magazine_id": magazineID},
		bson.M{"$unset": bson.M{"magazine_id": ""}},
	)
	return translateErr(err)
}

func (r *SubmissionRepository) CountByStatus(ctx context.Context, status domain.SubmissionStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"status": status})
	return n, translateErr(err)
}

// EnsureIndexes creates the lookup indexes for the submissions collection.
func (r *SubmissionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "author_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "magazine_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
