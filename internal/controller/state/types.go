package state

// UserState is the current dialog step of a user.
type UserState string

const (
	StateNone UserState = ""

	// Configuration dialog steps, in order.
	StateConfigDuration  UserState = "config_duration"
	StateConfigLessons   UserState = "config_lessons"
	StateConfigMorning   UserState = "config_morning"
	StateConfigAfternoon UserState = "config_afternoon"
	StateConfigEvening   UserState = "config_evening"
	StateConfigConfirm   UserState = "config_confirm"
)

// UserData holds a user's dialog step and its transient values.
type UserData struct {
	State UserState
	Data  map[string]interface{}
}
