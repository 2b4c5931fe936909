package schedule

import (
	"strings"
	"time"

	"github.com/darasa-app/darasa/core"
)

// Days of the week accepted by the "day" validator.
var Days = []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY"}

// Schedule is one recurring lesson slot on the class timetable.
type Schedule struct {
	ID        string    `json:"id"`
	Day       string    `json:"day"`
	Subject   string    `json:"subject"`
	StartTime string    `json:"start_time"` // HH:MM
	EndTime   string    `json:"end_time"`   // HH:MM
	Teacher   string    `json:"teacher"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

type NewSchedule struct {
	Day       string `json:"day" validate:"required,day"`
	Subject   string `json:"subject" validate:"required"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
	Teacher   string `json:"teacher"`
}

func (ns *NewSchedule) Validate() error {
	ns.Day = strings.ToUpper(core.CleanString(ns.Day))
	ns.Subject = core.CleanString(ns.Subject)
	ns.StartTime = core.CleanString(ns.StartTime)
	ns.EndTime = core.CleanString(ns.EndTime)
	ns.Teacher = core.CleanString(ns.Teacher)
	return core.Validate.Struct(ns)
}
