package model

import "time"

// BookModel mirrors the 'books' table.
type BookModel struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Title     string `gorm:"type:varchar(100);not null;index"`
	Author    string `gorm:"type:varchar(100);not null;index"`
	Year      int    `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (BookModel) TableName() string {
	return "books"
}

// All returns every model managed by the service, in migration order.
func All() []any {
	return []any{
		&MemberModel{},
		&BookModel{},
	}
}
