package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
)

func TestCredentialRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := repo.Create(context.Background(), &domain.Identity{Email: "admin@example.com", PasswordHash: "h", Roles: []string{domain.RoleAdmin}})
		require.NoError(mt, err)
		require.NotEmpty(mt, id.ID)
		require.Equal(mt, "admin@example.com", id.Email)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		_, err := repo.Create(context.Background(), &domain.Identity{Email: "admin@example.com"})
		require.ErrorIs(mt, err, domain.ErrIdentityExists)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.identities", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "email", Value: "admin@example.com"},
			{Key: "password_hash", Value: "h"},
			{Key: "roles", Value: bson.A{"ADMIN"}},
		}))

		id, err := repo.FindByEmail(context.Background(), "admin@example.com")
		require.NoError(mt, err)
		require.Equal(mt, oid.Hex(), id.ID)
		require.Equal(mt, []string{"ADMIN"}, id.Roles)
	})

	mt.Run("find missing", func(mt *mtest.T) {
		repo := NewCredentialRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.identities", mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "ghost@example.com")
		require.ErrorIs(mt, err, domain.ErrNotFound)
	})
}
