package rdb_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"library/internal/domain/entity"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/rdb"
	"library/internal/infra/persistence/rdb/rdbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBooks(t *testing.T, repo repository.BookRepository, books ...*entity.Book) {
	t.Helper()

	for _, book := range books {
		require.NoError(t, repo.Create(context.Background(), book))
	}
}

func TestBookRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := rdb.NewBookRepository(rdbtest.NewDB(t))

	book := &entity.Book{Title: "Dune", Author: "Frank Herbert", Year: 1965}
	require.NoError(t, repo.Create(ctx, book))
	require.NotZero(t, book.ID)

	found, err := repo.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", found.Title)

	found.Year = 1966
	require.NoError(t, repo.Update(ctx, found))

	locked, err := repo.FindByIDForUpdate(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1966, locked.Year)
	assert.Equal(t, "Frank Herbert", locked.Author)

	require.NoError(t, repo.Delete(ctx, book.ID))
	_, err = repo.FindByID(ctx, book.ID)
	assert.ErrorIs(t, err, repository.ErrBookNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, book.ID), repository.ErrBookNotFound)
	assert.ErrorIs(t, repo.Update(ctx, found), repository.ErrBookNotFound)
}

func TestBookRepository_ListPaging(t *testing.T) {
	ctx := context.Background()
	repo := rdb.NewBookRepository(rdbtest.NewDB(t))

	for i := 1; i <= 12; i++ {
		seedBooks(t, repo, &entity.Book{Title: fmt.Sprintf("Book %02d", i), Author: "Author", Year: 2000 + i})
	}

	items, total, err := repo.List(ctx, repository.BookQuery{Page: 1, PerPage: 5})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, items, 5)
	assert.Equal(t, "Book 01", items[0].Title)

	items, _, err = repo.List(ctx, repository.BookQuery{Page: 3, PerPage: 5})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Book 11", items[0].Title)
	assert.Less(t, items[0].ID, items[1].ID)

	items, total, err = repo.List(ctx, repository.BookQuery{Page: 4, PerPage: 5})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int64(12), total)

	items, total, err = repo.List(ctx, repository.BookQuery{Page: math.MaxInt/5 + 2, PerPage: 5})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, int64(12), total)
}

func TestBookRepository_ListSearch(t *testing.T) {
	ctx := context.Background()
	repo := rdb.NewBookRepository(rdbtest.NewDB(t))

	seedBooks(t, repo,
		&entity.Book{Title: "Nineteen Eighty-Four", Author: "George Orwell", Year: 1949},
		&entity.Book{Title: "Animal Farm", Author: "GEORGE ORWELL", Year: 1945},
		&entity.Book{Title: "Orwell's England", Author: "Someone Else", Year: 2001},
		&entity.Book{Title: "Brave New World", Author: "Aldous Huxley", Year: 1932},
		&entity.Book{Title: "100% Cotton", Author: "Percent Writer", Year: 2010},
		&entity.Book{Title: "1000 Cotton", Author: "Other", Year: 2011},
	)

	items, total, err := repo.List(ctx, repository.BookQuery{Search: "orwell", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 3)
	for _, book := range items {
		assert.NotEqual(t, "Brave New World", book.Title)
	}

	// Wildcards in the term match literally.
	items, total, err = repo.List(ctx, repository.BookQuery{Search: "0%", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "100% Cotton", items[0].Title)

	items, total, err = repo.List(ctx, repository.BookQuery{Search: "_", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}
