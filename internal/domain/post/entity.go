package post

import (
	"time"

	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
	StatusArchived  Status = "ARCHIVED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

type Type string

const (
	TypeNews  Type = "NEWS"
	TypeEvent Type = "EVENT"
)

func (t Type) Valid() bool {
	return t == TypeNews || t == TypeEvent
}

type Post struct {
	ID            int64             `json:"id" gorm:"primaryKey"`
	Title         string            `json:"title" gorm:"size:255;not null"`
	Slug          string            `json:"slug" gorm:"size:160;not null;uniqueIndex"`
	Excerpt       string            `json:"excerpt,omitempty" gorm:"size:500"`
	Content       string            `json:"content" gorm:"type:text"`
	CoverImage    string            `json:"cover_image,omitempty" gorm:"size:500"`
	Status        Status            `json:"status" gorm:"size:20;not null;index"`
	Type          Type              `json:"type" gorm:"size:20;not null;index"`
	EventStart    *time.Time        `json:"event_start,omitempty"`
	EventEnd      *time.Time        `json:"event_end,omitempty"`
	EventLocation string            `json:"event_location,omitempty" gorm:"size:255"`
	EventMeta     datatypes.JSONMap `json:"event_meta,omitempty"`
	AuthorID      *int64            `json:"author_id,omitempty" gorm:"index"`
	PublishedAt   *time.Time        `json:"published_at,omitempty" gorm:"index"`
	ViewCount     int64             `json:"view_count" gorm:"not null;default:0"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }
