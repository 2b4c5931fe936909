package schedule

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/darasa-app/darasa/core"
)

var (
	dayTag  = "day"
	dayText = "invalid day of week"

	hhmmTag   = "hhmm"
	hhmmText  = "must be a HH:MM time"
	hhmmRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// InitValidators registers the schedule package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(dayTag, dayValidation)
	core.RegisterCustomTranslation(validate, translator, dayTag, dayText)

	_ = validate.RegisterValidation(hhmmTag, hhmmValidation)
	core.RegisterCustomTranslation(validate, translator, hhmmTag, hhmmText)
}

func dayValidation(fl validator.FieldLevel) bool {
	day := fl.Field().String()
	for _, d := range Days {
		if day == d {
			return true
		}
	}
	return false
}

func hhmmValidation(fl validator.FieldLevel) bool {
	return hhmmRegex.MatchString(fl.Field().String())
}
