package officer

import (
	"time"

	"github.com/darasa-app/darasa/core"
)

// Officer is one member of the class officer roster (chairperson, secretary,
// treasurer...). Rank orders the roster on display, lowest first.
type Officer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Rank      int       `json:"rank"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewOfficer struct {
	Name     string `json:"name" validate:"required"`
	Position string `json:"position" validate:"required"`
	Rank     int    `json:"rank" validate:"gte=0"`
}

func (no *NewOfficer) Validate() error {
	no.Name = core.CleanString(no.Name)
	no.Position = core.CleanString(no.Position)
	return core.Validate.Struct(no)
}
