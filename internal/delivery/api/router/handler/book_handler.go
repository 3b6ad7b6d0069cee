package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"library/config"
	"library/internal/delivery/api/middleware"
	"library/internal/delivery/api/response"
	deliverycontext "library/internal/delivery/context"
	"library/internal/domain/entity"
	domainerrors "library/internal/domain/errors"
	"library/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// BookHandlerParams holds dependencies for BookHandler, injected by Fx.
type BookHandlerParams struct {
	fx.In

	BookUC usecase.BookUsecase
	Config *config.Config
	Logger *slog.Logger
}

// BookHandler serves the catalog routes. Every route sits behind AuthMiddleware.
type BookHandler struct {
	bookUC          usecase.BookUsecase
	defaultPageSize int
	logger          *slog.Logger
}

// NewBookHandler is the constructor for BookHandler
func NewBookHandler(params BookHandlerParams) *BookHandler {
	defaultPageSize := 5
	if params.Config != nil && params.Config.Catalog != nil && params.Config.Catalog.DefaultPageSize > 0 {
		defaultPageSize = params.Config.Catalog.DefaultPageSize
	}

	return &BookHandler{
		bookUC:          params.BookUC,
		defaultPageSize: defaultPageSize,
		logger:          params.Logger,
	}
}

// AddBookRequest represents the request body for adding a book
type AddBookRequest struct {
	Title  string `json:"title" form:"title" validate:"required"`
	Author string `json:"author" form:"author" validate:"required"`
	Year   int    `json:"year" form:"year" validate:"gt=0"`
}

// UpdateBookRequest carries a partial update. Omitted fields keep their value.
type UpdateBookRequest struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Year   *int    `json:"year"`
}

// BookResponse is the public view of a book.
type BookResponse struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookMutationResponse is returned by add and update.
type BookMutationResponse struct {
	Message string        `json:"message"`
	Book    *BookResponse `json:"book"`
}

// BookListResponse is one page of the catalog.
type BookListResponse struct {
	Books       []*BookResponse `json:"books"`
	Total       int64           `json:"total"`
	Pages       int             `json:"pages"`
	CurrentPage int             `json:"current_page"`
	PerPage     int             `json:"per_page"`
}

func toBookResponse(book *entity.Book) *BookResponse {
	return &BookResponse{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Year:      book.Year,
		CreatedAt: book.CreatedAt,
		UpdatedAt: book.UpdatedAt,
	}
}

// AddBook handles adding a book to the catalog
func (h *BookHandler) AddBook(c echo.Context) error {
	var req AddBookRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrInvalidInput.WithDetails("request body could not be parsed")
	}

	if err := c.Validate(&req); err != nil {
		return response.HandleAppError(c, err)
	}

	book, err := h.bookUC.Add(c.Request().Context(), &usecase.AddBookInput{
		Title:  req.Title,
		Author: req.Author,
		Year:   req.Year,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	h.logRequestMember(c, "Book added", book.ID)

	return response.Success(c, http.StatusCreated, BookMutationResponse{
		Message: "Book added successfully",
		Book:    toBookResponse(book),
	})
}

// ListBooks handles paginated, optionally filtered catalog listings.
// Unparseable page or per_page values fall back to their defaults.
func (h *BookHandler) ListBooks(c echo.Context) error {
	input := &usecase.ListBooksInput{
		Page:    queryInt(c, "page", 1),
		PerPage: queryInt(c, "per_page", h.defaultPageSize),
		Search:  c.QueryParam("search"),
	}

	page, err := h.bookUC.List(c.Request().Context(), input)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	books := make([]*BookResponse, 0, len(page.Items))
	for _, book := range page.Items {
		books = append(books, toBookResponse(book))
	}

	return response.Success(c, http.StatusOK, BookListResponse{
		Books:       books,
		Total:       page.Total,
		Pages:       page.Pages,
		CurrentPage: page.CurrentPage,
		PerPage:     page.PerPage,
	})
}

// GetBook handles retrieving a single book
func (h *BookHandler) GetBook(c echo.Context) error {
	id, err := bookIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	book, err := h.bookUC.Get(c.Request().Context(), id)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, toBookResponse(book))
}

// UpdateBook handles partial updates of a book
func (h *BookHandler) UpdateBook(c echo.Context) error {
	id, err := bookIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	var req UpdateBookRequest
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		return domainerrors.ErrInvalidInput.WithDetails("request body could not be parsed")
	}

	book, err := h.bookUC.Update(c.Request().Context(), id, entity.BookPatch{
		Title:  req.Title,
		Author: req.Author,
		Year:   req.Year,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	h.logRequestMember(c, "Book updated", book.ID)

	return response.Success(c, http.StatusOK, BookMutationResponse{
		Message: "Book updated successfully",
		Book:    toBookResponse(book),
	})
}

// DeleteBook handles removing a book
func (h *BookHandler) DeleteBook(c echo.Context) error {
	id, err := bookIDParam(c)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	if err := h.bookUC.Delete(c.Request().Context(), id); err != nil {
		return response.HandleAppError(c, err)
	}

	h.logRequestMember(c, "Book deleted", id)

	return response.Success(c, http.StatusOK, response.Message{Message: "Book deleted successfully"})
}

func (h *BookHandler) logRequestMember(c echo.Context, msg string, bookID uint64) {
	ctx := c.Request().Context()
	memberID, _ := middleware.GetMemberID(c)
	deliverycontext.GetLoggerOrDefault(ctx, h.logger).DebugContext(ctx, msg,
		slog.Uint64("memberID", memberID),
		slog.Uint64("bookID", bookID),
	)
}

func bookIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, domainerrors.ErrInvalidInput.WithDetails("book id must be a positive integer")
	}

	return id, nil
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
