package repository

import (
	"context"
	"errors"
	"math"

	"library/internal/domain/entity"
)

// ErrBookNotFound is returned when no book matches the given identifier.
var ErrBookNotFound = errors.New("book not found")

// BookQuery selects a page of the catalog.
// Page and PerPage are expected to be normalized (>= 1) by the caller.
type BookQuery struct {
	Search  string
	Page    int
	PerPage int
}

// Offset returns the number of rows skipped before the page starts.
// It saturates at math.MaxInt instead of wrapping for pages far past the end.
func (q BookQuery) Offset() int {
	if q.Page <= 1 || q.PerPage <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.PerPage {
		return math.MaxInt
	}

	return (q.Page - 1) * q.PerPage
}

// BookRepository defines the persistence operations for catalog records.
type BookRepository interface {
	// Create persists a new book and fills in the generated ID and timestamps.
	Create(ctx context.Context, book *entity.Book) error

	// FindByID retrieves a book by identifier.
	FindByID(ctx context.Context, id uint64) (*entity.Book, error)

	// FindByIDForUpdate retrieves a book and locks its row for the rest of the transaction
	// where the driver supports row locks.
	FindByIDForUpdate(ctx context.Context, id uint64) (*entity.Book, error)

	// Update writes title, author and year of an existing book.
	Update(ctx context.Context, book *entity.Book) error

	// Delete removes a book. Returns ErrBookNotFound when nothing was deleted.
	Delete(ctx context.Context, id uint64) error

	// List returns the books matching the query, ordered by ascending ID, and the
	// total number of matches across all pages.
	List(ctx context.Context, query BookQuery) ([]*entity.Book, int64, error)
}
