package audit

import "time"

// Actions recorded by privileged mutations.
const (
	ActionUpdateRole       = "UPDATE_ROLE"
	ActionBanUser          = "BAN_USER"
	ActionUnbanUser        = "UNBAN_USER"
	ActionCreateBroadcast  = "CREATE_BROADCAST"
	ActionUpdateBroadcast  = "UPDATE_BROADCAST"
	ActionDisableBroadcast = "DISABLE_BROADCAST"
	ActionUpdateSettings   = "UPDATE_SETTINGS"
	ActionCreateSchedule   = "CREATE_SCHEDULE"
	ActionUpdateSchedule   = "UPDATE_SCHEDULE"
	ActionDeleteSchedule   = "DELETE_SCHEDULE"
	ActionCreateAssignment = "CREATE_ASSIGNMENT"
	ActionUpdateAssignment = "UPDATE_ASSIGNMENT"
	ActionDeleteAssignment = "DELETE_ASSIGNMENT"
	ActionCreatePhoto      = "CREATE_PHOTO"
	ActionDeletePhoto      = "DELETE_PHOTO"
	ActionCreateOfficer    = "CREATE_OFFICER"
	ActionUpdateOfficer    = "UPDATE_OFFICER"
	ActionDeleteOfficer    = "DELETE_OFFICER"
)

// RetentionCount is the number of most-recent entries kept by Prune.
const RetentionCount = 50

// Entry is an immutable record of a privileged action.
type Entry struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
