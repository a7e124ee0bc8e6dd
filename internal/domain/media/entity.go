package media

import "time"

// Media is an image stored on local disk and served from the uploads URL.
type Media struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UploadedBy   *int64    `gorm:"index" json:"uploaded_by,omitempty"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	FilePath     string    `gorm:"size:500;not null" json:"-"`
	URL          string    `gorm:"size:500;not null" json:"url"`
	MimeType     string    `gorm:"size:100;not null" json:"mime_type"`
	Size         int64     `gorm:"not null" json:"size"`
	Folder       string    `gorm:"size:100;not null;index" json:"folder"`
	AltText      string    `gorm:"size:255" json:"alt_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Media) TableName() string { return "media" }
