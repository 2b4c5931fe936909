package settings

import (
	"time"

	"github.com/darasa-app/darasa/core"
)

// Settings is the single-row site configuration shown on every page.
type Settings struct {
	ID           string    `json:"id"`
	SiteName     string    `json:"site_name"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contact_email"`
	UpdatedAt    time.Time `json:"updated_at"` // UTC
}

type UpdateSettings struct {
	SiteName     string `json:"site_name" validate:"required"`
	Description  string `json:"description"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

func (us *UpdateSettings) Validate() error {
	us.SiteName = core.CleanString(us.SiteName)
	us.Description = core.CleanString(us.Description)
	us.ContactEmail = core.CleanString(us.ContactEmail, true /* lower */)
	return core.Validate.Struct(us)
}
