package rdb

import (
	"context"
	"strings"
	"time"

	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/domain/repository"
	"library/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// bookRepository implements the repository.BookRepository interface.
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository is the constructor for bookRepository.
func NewBookRepository(db *gorm.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

// Create persists a new book.
func (repo *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	bookM := fromBookDomain(book)

	if err := repo.db.WithContext(ctx).Create(bookM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidInput.WrapMessage("missing required book information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create book")
	}

	book.ID = bookM.ID
	book.CreatedAt = bookM.CreatedAt
	book.UpdatedAt = bookM.UpdatedAt

	return nil
}

// FindByID retrieves a book by its identifier.
func (repo *bookRepository) FindByID(ctx context.Context, id uint64) (*entity.Book, error) {
	return repo.find(repo.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves a book with a row lock on PostgreSQL.
// SQLite serializes writers on its own and has no row locks.
func (repo *bookRepository) FindByIDForUpdate(ctx context.Context, id uint64) (*entity.Book, error) {
	tx := repo.db.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	return repo.find(tx, id)
}

func (repo *bookRepository) find(tx *gorm.DB, id uint64) (*entity.Book, error) {
	var bookM model.BookModel

	if err := tx.Where("id = ?", id).First(&bookM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBookNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find book by id")
	}

	return toBookDomain(&bookM), nil
}

// Update writes all mutable fields of an existing book.
func (repo *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	now := time.Now()

	result := repo.db.WithContext(ctx).
		Model(&model.BookModel{}).
		Where("id = ?", book.ID).
		Updates(map[string]any{
			"title":      book.Title,
			"author":     book.Author,
			"year":       book.Year,
			"updated_at": now,
		})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update book")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookNotFound
	}

	book.UpdatedAt = now

	return nil
}

// Delete removes a book by identifier.
func (repo *bookRepository) Delete(ctx context.Context, id uint64) error {
	result := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&model.BookModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete book")
	}
	if result.RowsAffected == 0 {
		return repository.ErrBookNotFound
	}

	return nil
}

// List filters by a case-insensitive substring of title or author and pages by ascending ID.
func (repo *bookRepository) List(ctx context.Context, query repository.BookQuery) ([]*entity.Book, int64, error) {
	base := repo.db.WithContext(ctx).Model(&model.BookModel{})
	if query.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query.Search)) + "%"
		base = base.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	// Session makes the filtered statement safe to reuse for both queries.
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to count books")
	}

	offset := query.Offset()
	if int64(offset) >= total {
		return []*entity.Book{}, total, nil
	}

	var bookModels []*model.BookModel
	if err := base.
		Order("id ASC").
		Limit(query.PerPage).
		Offset(offset).
		Find(&bookModels).Error; err != nil {
		return nil, 0, domainerrors.NewDatabaseExecuteError(err, "failed to list books")
	}

	books := make([]*entity.Book, 0, len(bookModels))
	for _, bookM := range bookModels {
		books = append(books, toBookDomain(bookM))
	}

	return books, total, nil
}

// --- Mapper Functions ---

func toBookDomain(data *model.BookModel) *entity.Book {
	if data == nil {
		return nil
	}

	return &entity.Book{
		ID:        data.ID,
		Title:     data.Title,
		Author:    data.Author,
		Year:      data.Year,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

func fromBookDomain(data *entity.Book) *model.BookModel {
	if data == nil {
		return nil
	}

	return &model.BookModel{
		ID:        data.ID,
		Title:     data.Title,
		Author:    data.Author,
		Year:      data.Year,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
