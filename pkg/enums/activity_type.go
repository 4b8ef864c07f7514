package enums

import "fmt"

// ActivityType classifies a logged interaction.
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "call"
	ActivityTypeEmail   ActivityType = "email"
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeNote    ActivityType = "note"
	ActivityTypeTask    ActivityType = "task"
)

var validActivityTypes = []ActivityType{
	ActivityTypeCall,
	ActivityTypeEmail,
	ActivityTypeMeeting,
	ActivityTypeNote,
	ActivityTypeTask,
}

// String implements fmt.Stringer.
func (a ActivityType) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ActivityType.
func (a ActivityType) IsValid() bool {
	for _, candidate := range validActivityTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseActivityType converts raw input into an ActivityType.
func ParseActivityType(value string) (ActivityType, error) {
	for _, candidate := range validActivityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity type %q", value)
}
