package models

import "time"

type Attachment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	RequestID uint `gorm:"not null;index" json:"request_id"`

	ObjectKey   string `gorm:"size:255;not null;uniqueIndex" json:"-"`
	FileName    string `gorm:"size:255" json:"file_name"`
	ContentType string `gorm:"size:100" json:"content_type"`
	Size        int64  `json:"size"`
	URL         string `gorm:"size:1024" json:"url"`

	UploadedBy *uint     `json:"uploaded_by"`
	CreatedAt  time.Time `json:"created_at"`
}
