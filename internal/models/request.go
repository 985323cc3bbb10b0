package models

import "time"

// Request is a repair ticket.
type Request struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RequestNumber string    `gorm:"size:50;uniqueIndex;not null" json:"request_number"`
	DateAdded     time.Time `gorm:"not null;index" json:"date_added"`

	Equipment   string  `gorm:"size:100;not null" json:"equipment"`
	IssueType   string  `gorm:"size:100;not null;index" json:"issue_type"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Client      string  `gorm:"size:100;not null;index" json:"client"`
	Status      string  `gorm:"size:50;not null;index" json:"status"`
	AssignedTo  *string `gorm:"size:100" json:"assigned_to"`

	OwnerID *uint `gorm:"index" json:"owner_id"`
	Owner   *User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	CompletedAt *time.Time `json:"completed_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Comments    []Comment    `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE;" json:"comments"`
	Attachments []Attachment `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE;" json:"attachments"`
}

type Comment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Text      string    `gorm:"type:text;not null" json:"text"`
	DateAdded time.Time `gorm:"not null" json:"date_added"`

	RequestID uint `gorm:"not null;index" json:"request_id"`

	AuthorID   *uint  `gorm:"index" json:"author_id"`
	Author     *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	AuthorName string `gorm:"size:1000" json:"author_name"`
}
