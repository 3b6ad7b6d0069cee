package entity

import "time"

// Book is a catalog record. Duplicate title/author/year combinations are allowed.
type Book struct {
	ID        uint64
	Title     string
	Author    string
	Year      int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookPatch carries a partial update. Nil fields keep their stored value.
type BookPatch struct {
	Title  *string
	Author *string
	Year   *int
}

// IsEmpty reports whether the patch changes nothing.
func (p BookPatch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Year == nil
}

// Apply copies the present fields onto the book.
func (p BookPatch) Apply(book *Book) {
	if p.Title != nil {
		book.Title = *p.Title
	}
	if p.Author != nil {
		book.Author = *p.Author
	}
	if p.Year != nil {
		book.Year = *p.Year
	}
}

// BookPage is one page of a filtered catalog listing.
type BookPage struct {
	Items       []*Book
	Total       int64
	Pages       int
	CurrentPage int
	PerPage     int
}
