package main

import "time"

// User is the persisted account record. Handlers convert it to a
// lightweight DTO for the client; the hash and reset token never leave
// the server.
type User struct {
	ID                uint       `gorm:"primaryKey"`
	Name              string     `gorm:"size:100;not null"`
	Email             string     `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash      string     `gorm:"size:255;not null"`
	IsAdmin           bool       `gorm:"not null;default:false"`
	ResetToken        *string    `gorm:"size:100;index"`
	ResetTokenExpires *time.Time ``
	CreatedAt         time.Time  `gorm:"autoCreateTime"`

	Folders []Folder `gorm:"constraint:OnDelete:CASCADE"`
}

func (User) TableName() string { return "users" }

type Folder struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	UserID    uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	Notes []Note `gorm:"constraint:OnDelete:CASCADE"`
}

type Note struct {
	ID        uint      `gorm:"primaryKey"`
	Title     string    `gorm:"size:200;not null"`
	Content   string    `gorm:"type:text"`
	FolderID  uint      `gorm:"index;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// StudySession rows are append-only; there is no update endpoint.
type StudySession struct {
	ID              uint       `gorm:"primaryKey"`
	UserID          uint       `gorm:"index;not null"`
	StartTime       time.Time  `gorm:"not null"`
	EndTime         *time.Time ``
	DurationSeconds int        `gorm:"not null;default:0"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
}

type RoutineTask struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index;not null"`
	Title      string    `gorm:"size:200;not null"`
	Category   string    `gorm:"size:50;not null"`
	StartTime  string    `gorm:"size:5;not null"`   // HH:MM
	EndTime    string    `gorm:"size:5;not null"`   // HH:MM
	Days       string    `gorm:"size:100;not null"` // comma-joined weekday names
	Color      string    `gorm:"size:7;default:#6366f1"`
	Completed  bool      `gorm:"not null;default:false"`
	OrderIndex int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
