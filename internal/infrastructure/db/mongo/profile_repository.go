package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

const (
	collectionProfiles = "profiles"
	collectionCounters = "counters"

	// maxUpdateAttempts bounds the optimistic-concurrency retry loop.
	maxUpdateAttempts = 3
)

// ProfileRepository stores profiles in MongoDB with int64 ids drawn from a
// counters collection.
type ProfileRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{
		col:      db.Collection(collectionProfiles),
		counters: db.Collection(collectionCounters),
	}
}

func (r *ProfileRepository) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionProfiles},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next profile id: %w", err)
	}
	return counter.Seq, nil
}

// Create inserts a profile. The unique email index turns a concurrent
// duplicate into domain.ErrEmailTaken.
func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	doc := *p
	doc.ID = id
	doc.Version = 1
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return &doc, nil
}

func (r *ProfileRepository) FindByID(ctx context.Context, id int64) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Profile
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ProfileNotFound(id)
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &p, nil
}

// Update replaces the document only if its version is unchanged since it
// was read, retrying a few times before reporting domain.ErrConflict.
func (r *ProfileRepository) Update(ctx context.Context, id int64, mutate ports.ProfileMutator) (*domain.Profile, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		current, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}

		seen := current.Version
		if err := mutate(current); err != nil {
			return nil, err
		}
		current.ID = id
		current.Version = seen + 1

		opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
		res, err := r.col.ReplaceOne(opCtx, bson.M{"_id": id, "version": seen}, current)
		cancel()
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, domain.ErrEmailTaken
			}
			return nil, fmt.Errorf("replace profile: %w", err)
		}
		if res.MatchedCount == 1 {
			return current, nil
		}
	}
	return nil, fmt.Errorf("update profile %d: %w", id, domain.ErrConflict)
}

// Delete removes the profile and returns what was removed.
func (r *ProfileRepository) Delete(ctx context.Context, id int64) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Profile
	if err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ProfileNotFound(id)
		}
		return nil, fmt.Errorf("delete profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) List(ctx context.Context, page domain.PageRequest) ([]*domain.Profile, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count profiles: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(page.Offset())).
		SetLimit(int64(page.Size))
	items, err := r.find(ctx, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ProfileRepository) All(ctx context.Context) ([]*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *ProfileRepository) find(ctx context.Context, opts *options.FindOptions) ([]*domain.Profile, error) {
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer cur.Close(ctx)

	items := make([]*domain.Profile, 0)
	for cur.Next(ctx) {
		var p domain.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("decode profile: %w", err)
		}
		items = append(items, &p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return items, nil
}
