package models

// Settings holds persisted application settings
type Settings struct {
	Timezone             string `json:"timezone"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	ActiveGoalID         string `json:"active_goal"`
}
