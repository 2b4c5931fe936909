package broadcast

import (
	"time"

	"github.com/darasa-app/darasa/core"
)

// Broadcast is a site-wide announcement. At most one broadcast is active at
// any time; activating one deactivates all others.
type Broadcast struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NewBroadcast contains the information needed to publish a broadcast.
type NewBroadcast struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (nb *NewBroadcast) Validate() error {
	nb.Title = core.CleanString(nb.Title)
	nb.Content = core.CleanString(nb.Content)
	return core.Validate.Struct(nb)
}
