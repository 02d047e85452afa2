package models

import "time"

// Post is a single board message. Posts are immutable once created; they
// are only ever deleted (by moderation commands or retention pruning).
type Post struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:25;not null" json:"name"`
	Content   string    `gorm:"size:1000;not null" json:"content"`
	AuthorTag string    `gorm:"size:8;index;not null" json:"authorTag"`
	Topic     string    `gorm:"size:100" json:"-"` // topic snapshot at posting time
	CreatedAt time.Time `json:"createdAt"`
}

// RoleAssignment maps an identity tag to a named role. Rows are managed
// out of band (an operator seeds them); the board only reads them.
type RoleAssignment struct {
	Tag       string    `gorm:"primaryKey;size:8" json:"tag"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Setting is a generic key/value row; the current topic lives here.
type Setting struct {
	Key   string `gorm:"primaryKey;size:32"`
	Value string `gorm:"size:1000"`
}

// NGWord is a banned word. Posts containing one are rejected before storage.
type NGWord struct {
	ID   uint   `gorm:"primarykey"`
	Word string `gorm:"size:100;unique;not null"`
}
