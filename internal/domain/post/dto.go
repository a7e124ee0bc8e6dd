package post

import "time"

type CreateRequest struct {
	Title         string         `json:"title" binding:"required,max=255"`
	Slug          string         `json:"slug" binding:"omitempty,max=160"`
	Excerpt       string         `json:"excerpt" binding:"omitempty,max=500"`
	Content       string         `json:"content"`
	CoverImage    string         `json:"cover_image" binding:"omitempty,max=500"`
	Status        Status         `json:"status"`
	Type          Type           `json:"type"`
	EventStart    *time.Time     `json:"event_start"`
	EventEnd      *time.Time     `json:"event_end"`
	EventLocation string         `json:"event_location" binding:"omitempty,max=255"`
	EventMeta     map[string]any `json:"event_meta"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Title         *string        `json:"title" binding:"omitempty,max=255"`
	Slug          *string        `json:"slug" binding:"omitempty,max=160"`
	Excerpt       *string        `json:"excerpt" binding:"omitempty,max=500"`
	Content       *string        `json:"content"`
	CoverImage    *string        `json:"cover_image" binding:"omitempty,max=500"`
	Type          *Type          `json:"type"`
	EventStart    *time.Time     `json:"event_start"`
	EventEnd      *time.Time     `json:"event_end"`
	EventLocation *string        `json:"event_location" binding:"omitempty,max=255"`
	EventMeta     map[string]any `json:"event_meta"`
}

type StatusRequest struct {
	Status Status `json:"status" binding:"required"`
}

type ListFilter struct {
	Status   Status
	Type     Type
	Search   string
	Page     int
	PageSize int
}
