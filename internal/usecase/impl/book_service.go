package impl

import (
	"context"
	"log/slog"
	"strings"

	"library/config"
	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// bookService implements the BookUsecase interface.
type bookService struct {
	txManager   repository.TransactionManager
	bookRepo    repository.BookRepository
	maxPageSize int
	logger      *slog.Logger
}

// BookServiceParams holds dependencies for BookService, injected by Fx.
type BookServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	BookRepo  repository.BookRepository
	Config    *config.Config
	Logger    *slog.Logger
}

// NewBookService is the constructor for bookService.
func NewBookService(params BookServiceParams) usecase.BookUsecase {
	srv := &bookService{
		txManager: params.TxManager,
		bookRepo:  params.BookRepo,
		logger:    params.Logger,
	}
	if params.Config != nil && params.Config.Catalog != nil {
		srv.maxPageSize = params.Config.Catalog.MaxPageSize
	}

	return srv
}

func (srv *bookService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Add validates and stores a new book.
func (srv *bookService) Add(ctx context.Context, input *usecase.AddBookInput) (*entity.Book, error) {
	book := &entity.Book{
		Title:  strings.TrimSpace(input.Title),
		Author: strings.TrimSpace(input.Author),
		Year:   input.Year,
	}
	if err := validateBook(book); err != nil {
		return nil, err
	}

	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return repoFactory.BookRepo().Create(ctx, book)
	}); err != nil {
		return nil, errors.Wrap(err, "failed to add book")
	}

	srv.log(ctx).Info("Book added", slog.Uint64("bookID", book.ID))

	return book, nil
}

// Update applies the supplied fields and leaves the rest untouched.
func (srv *bookService) Update(ctx context.Context, id uint64, patch entity.BookPatch) (*entity.Book, error) {
	patch = trimPatch(patch)

	var updated *entity.Book
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		bookRepo := repoFactory.BookRepo()

		book, err := bookRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return mapBookError(err)
		}

		if patch.IsEmpty() {
			updated = book

			return nil
		}

		patch.Apply(book)
		if err := validateBook(book); err != nil {
			return err
		}

		if err := bookRepo.Update(ctx, book); err != nil {
			return mapBookError(err)
		}
		updated = book

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update book")
	}

	srv.log(ctx).Info("Book updated", slog.Uint64("bookID", id))

	return updated, nil
}

// Delete removes a book.
func (srv *bookService) Delete(ctx context.Context, id uint64) error {
	if err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		return mapBookError(repoFactory.BookRepo().Delete(ctx, id))
	}); err != nil {
		return errors.Wrap(err, "failed to delete book")
	}

	srv.log(ctx).Info("Book deleted", slog.Uint64("bookID", id))

	return nil
}

// Get returns a single book.
func (srv *bookService) Get(ctx context.Context, id uint64) (*entity.Book, error) {
	book, err := srv.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Wrap(mapBookError(err), "failed to get book")
	}

	return book, nil
}

// List returns one page of the catalog, optionally filtered by a search term.
func (srv *bookService) List(ctx context.Context, input *usecase.ListBooksInput) (*entity.BookPage, error) {
	query := repository.BookQuery{
		Search:  input.Search,
		Page:    max(input.Page, 1),
		PerPage: srv.normalizePerPage(input.PerPage),
	}

	items, total, err := srv.bookRepo.List(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list books")
	}
	if items == nil {
		items = []*entity.Book{}
	}

	return &entity.BookPage{
		Items:       items,
		Total:       total,
		Pages:       pageCount(total, query.PerPage),
		CurrentPage: query.Page,
		PerPage:     query.PerPage,
	}, nil
}

func (srv *bookService) normalizePerPage(perPage int) int {
	perPage = max(perPage, 1)
	if srv.maxPageSize > 0 {
		perPage = min(perPage, srv.maxPageSize)
	}

	return perPage
}

func pageCount(total int64, perPage int) int {
	if total <= 0 {
		return 0
	}

	size := int64(perPage)

	return int((total + size - 1) / size)
}

func validateBook(book *entity.Book) error {
	var problems []string
	if book.Title == "" {
		problems = append(problems, "title is required")
	}
	if book.Author == "" {
		problems = append(problems, "author is required")
	}
	if book.Year <= 0 {
		problems = append(problems, "year must be a positive integer")
	}

	if len(problems) > 0 {
		return domainerrors.ErrInvalidInput.WithDetails(strings.Join(problems, "; "))
	}

	return nil
}

func trimPatch(patch entity.BookPatch) entity.BookPatch {
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		patch.Title = &title
	}
	if patch.Author != nil {
		author := strings.TrimSpace(*patch.Author)
		patch.Author = &author
	}

	return patch
}

func mapBookError(err error) error {
	if errors.Is(err, repository.ErrBookNotFound) {
		return domainerrors.ErrBookNotFound.WrapMessage("book not found")
	}

	return err
}
