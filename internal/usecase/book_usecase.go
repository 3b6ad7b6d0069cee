package usecase

import (
	"context"

	"library/internal/domain/entity"
)

// AddBookInput defines the data required to add a book to the catalog.
type AddBookInput struct {
	Title  string
	Author string
	Year   int
}

// ListBooksInput selects a page of the catalog. Zero or negative values are normalized.
type ListBooksInput struct {
	Page    int
	PerPage int
	Search  string
}

// BookUsecase defines the catalog operations.
type BookUsecase interface {
	Add(ctx context.Context, input *AddBookInput) (*entity.Book, error)
	Update(ctx context.Context, id uint64, patch entity.BookPatch) (*entity.Book, error)
	Delete(ctx context.Context, id uint64) error
	Get(ctx context.Context, id uint64) (*entity.Book, error)
	List(ctx context.Context, input *ListBooksInput) (*entity.BookPage, error)
}
