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

const collectionMagazines = "magazines"

type MagazineRepository struct {
	col *mongo.Collection
}

func NewMagazineRepository(db *mongo.Database) *MagazineRepository {
	return &MagazineRepository{col: db.Collection(collectionMagazines)}
}

// NewID mints an ObjectID hex for an issue that has not been inserted yet.
func (r *MagazineRepository) NewID() string {
	return primitive.NewObjectID().Hex()
}

func (r *MagazineRepository) Create(ctx context.Context, m *domain.Magazine) (*domain.Magazine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *m
	if doc.ID == "" {
		doc.ID = r.NewID()
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, translateErr(err)
	}
	return &doc, nil
}

func (r *MagazineRepository) FindByID(ctx context.Context, id string) (*domain.Magazine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Magazine
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMagazineNotFound
		}
		return nil, translateErr(err)
	}
	return &m, nil
}

// ListDrafts returns unpublished issues, newest first.
func (r *MagazineRepository) ListDrafts(ctx context.Context) ([]*domain.Magazine, error) {
	return r.list(ctx, bson.M{"is_public": false}, bson.D{{Key: "created_at", Value: -1}})
}

// ListPublished returns public issues, most recently published first.
func (r *MagazineRepository) ListPublished(ctx context.Context) ([]*domain.Magazine, error) {
	return r.list(ctx, bson.M{"is_public": true}, bson.D{
		{Key: "published_at", Value: -1},
		{Key: "_id", Value: -1},
	})
}

// LatestPublished returns the most recently published issue. Ids are ObjectID
// hex, so their lexical order follows creation order and sorting by _id after
// published_at gives a deterministic winner when two issues publish within the
// same clock tick.
func (r *MagazineRepository) LatestPublished(ctx context.Context) (*domain.Magazine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{
		{Key: "published_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	var m domain.Magazine
	err := r.col.FindOne(ctx, bson.M{"is_public": true}, opts).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMagazineNotFound
		}
		return nil, translateErr(err)
	}
	return &m, nil
}

// MarkPublished flips is_public false->true and stamps published_at as one
// conditional update. Concurrent publishers on the same id produce exactly
// one winner; the loser, and any later repeat call, gets ErrAlreadyPublished.
func (r *MagazineRepository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "is_public": false},
		bson.M{"$set": bson.M{"is_public": true, "published_at": at}},
	)
	if err != nil {
		return translateErr(err)
	}
	if res.MatchedCount == 0 {
		// Either the id is unknown or someone else already published it.
		count, err := r.col.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return translateErr(err)
		}
		if count == 0 {
			return domain.ErrMagazineNotFound
		}
		return domain.ErrAlreadyPublished
	}
	return nil
}

func (r *MagazineRepository) CountDrafts(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{"is_public": false})
}

func (r *MagazineRepository) CountPublished(ctx context.Context) (int64, error) {
	return r.count(ctx, bson.M{"is_public": true})
}

func (r *MagazineRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter)
	return n, translateErr(err)
}

func (r *MagazineRepository) list(ctx context.Context, filter bson.M, sort bson.D) ([]*domain.Magazine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, translateErr(err)
	}
	defer cur.Close(ctx)

	var out []*domain.Magazine
	if err := cur.All(ctx, &out); err != nil {
		return nil, translateErr(err)
	}
	return out, nil
}

// EnsureIndexes creates the query indexes for the magazines collection.
func (r *MagazineRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "is_public", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
