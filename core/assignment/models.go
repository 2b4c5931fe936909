package assignment

import (
	"time"

	"github.com/darasa-app/darasa/core"
)

// Assignment is a homework/agenda item shown to the class.
type Assignment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Subject     string    `json:"subject"`
	DueDate     time.Time `json:"due_date"`   // UTC
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// IsOverdue reports whether the due date has passed at time t.
func (a Assignment) IsOverdue(t time.Time) bool {
	return !a.DueDate.IsZero() && t.After(a.DueDate)
}

type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	Subject     string    `json:"subject" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

func (na *NewAssignment) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	na.Subject = core.CleanString(na.Subject)
	return core.Validate.Struct(na)
}
