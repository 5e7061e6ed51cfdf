package mongo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

const profilesNS = "test.profiles"

func profileDoc(id int64, email string, version int64) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Ada"},
		{Key: "email", Value: email},
		{Key: "password_hash", Value: "$2a$hash"},
		{Key: "version", Value: version},
	}
}

func TestProfileRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id from counter", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{{Key: "_id", Value: "profiles"}, {Key: "seq", Value: int64(3)}}}),
			mtest.CreateSuccessResponse(),
		)

		p, err := repo.Create(context.Background(), &domain.Profile{Name: "Ada", Email: "a@x.com"})
		require.NoError(mt, err)
		require.Equal(mt, int64(3), p.ID)
		require.Equal(mt, int64(1), p.Version)
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{{Key: "_id", Value: "profiles"}, {Key: "seq", Value: int64(4)}}}),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
		)

		_, err := repo.Create(context.Background(), &domain.Profile{Name: "Ada", Email: "a@x.com"})
		require.ErrorIs(mt, err, domain.ErrEmailTaken)
	})
}

func TestProfileRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, profilesNS, mtest.FirstBatch, profileDoc(7, "a@x.com", 2)))

		p, err := repo.FindByID(context.Background(), 7)
		require.NoError(mt, err)
		require.Equal(mt, int64(7), p.ID)
		require.Equal(mt, "a@x.com", p.Email)
		require.Equal(mt, int64(2), p.Version)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, profilesNS, mtest.FirstBatch))

		_, err := repo.FindByID(context.Background(), 9999)
		var nf *domain.NotFoundError
		require.True(mt, errors.As(err, &nf))
		require.Equal(mt, "Profile with ID 9999 not found", nf.Error())
	})
}

func TestProfileRepository_Update(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("applies mutation with version check", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, profilesNS, mtest.FirstBatch, profileDoc(7, "a@x.com", 2)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}),
		)

		p, err := repo.Update(context.Background(), 7, func(p *domain.Profile) error {
			p.Name = "Ada King"
			return nil
		})
		require.NoError(mt, err)
		require.Equal(mt, "Ada King", p.Name)
		require.Equal(mt, int64(3), p.Version)
	})

	mt.Run("gives up after repeated conflicts", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		for i := 0; i < maxUpdateAttempts; i++ {
			mt.AddMockResponses(
				mtest.CreateCursorResponse(1, profilesNS, mtest.FirstBatch, profileDoc(7, "a@x.com", int64(2+i))),
				mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			)
		}

		calls := 0
		_, err := repo.Update(context.Background(), 7, func(p *domain.Profile) error {
			calls++
			return nil
		})
		require.ErrorIs(mt, err, domain.ErrConflict)
		require.Equal(mt, maxUpdateAttempts, calls)
	})

	mt.Run("mutation error aborts", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, profilesNS, mtest.FirstBatch, profileDoc(7, "a@x.com", 1)))

		boom := errors.New("boom")
		_, err := repo.Update(context.Background(), 7, func(p *domain.Profile) error { return boom })
		require.ErrorIs(mt, err, boom)
	})
}

func TestProfileRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns deleted document", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: profileDoc(7, "a@x.com", 1)}))

		p, err := repo.Delete(context.Background(), 7)
		require.NoError(mt, err)
		require.Equal(mt, int64(7), p.ID)
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.Delete(context.Background(), 9999)
		require.ErrorIs(mt, err, domain.ErrNotFound)
	})
}

func TestProfileRepository_List(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("page with total", func(mt *mtest.T) {
		repo := NewProfileRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, profilesNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int64(7)}}),
			mtest.CreateCursorResponse(0, profilesNS, mtest.FirstBatch,
				profileDoc(6, "6@x.com", 1),
				profileDoc(7, "7@x.com", 1),
			),
		)

		items, total, err := repo.List(context.Background(), domain.PageRequest{Page: 1, Size: 5})
		require.NoError(mt, err)
		require.Equal(mt, int64(7), total)
		require.Len(mt, items, 2)
		require.Equal(mt, int64(6), items[0].ID)
	})
}
