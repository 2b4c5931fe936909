package gallery

import (
	"time"

	"github.com/darasa-app/darasa/core"
)

// Photo is one entry in the class photo gallery. The image itself lives on
// external storage; only its URL is kept here.
type Photo struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewPhoto struct {
	Title    string `json:"title" validate:"required"`
	ImageURL string `json:"image_url" validate:"required,url"`
}

func (np *NewPhoto) Validate() error {
	np.Title = core.CleanString(np.Title)
	np.ImageURL = core.CleanString(np.ImageURL)
	return core.Validate.Struct(np)
}
