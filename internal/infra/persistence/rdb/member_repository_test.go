package rdb_test

import (
	"context"
	"testing"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/rdb"
	"library/internal/infra/persistence/rdb/rdbtest"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := rdb.NewMemberRepository(rdbtest.NewDB(t))

	member := &entity.Member{Name: "Ada", Email: "  Ada@Example.COM ", PasswordHash: "digest"}
	require.NoError(t, repo.Create(ctx, member))
	assert.NotZero(t, member.ID)
	assert.Equal(t, "ada@example.com", member.Email)
	assert.False(t, member.CreatedAt.IsZero())

	byEmail, err := repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, member.ID, byEmail.ID)
	assert.Equal(t, "digest", byEmail.PasswordHash)

	byID, err := repo.FindByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", byID.Name)
}

func TestMemberRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := rdb.NewMemberRepository(rdbtest.NewDB(t))

	_, err := repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)

	_, err = repo.FindByID(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
}

func TestMemberRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := rdb.NewMemberRepository(rdbtest.NewDB(t))

	require.NoError(t, repo.Create(ctx, &entity.Member{Name: "A", Email: "dup@example.com", PasswordHash: "x"}))

	err := repo.Create(ctx, &entity.Member{Name: "B", Email: "DUP@example.com", PasswordHash: "y"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
}
