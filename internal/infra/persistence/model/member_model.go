// Package model holds the GORM persistence models.
package model

import "time"

// MemberModel mirrors the 'members' table. Email is stored lowercased and is unique.
type MemberModel struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"type:varchar(100);not null"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex:idx_members_email"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(128);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (MemberModel) TableName() string {
	return "members"
}
