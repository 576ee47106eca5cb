package dto

type SessionMark string

const (
	SessionPresent SessionMark = "present"
	SessionAbsent  SessionMark = "absent"
	SessionUnknown SessionMark = "unknown"
)

type DayRecord struct {
	Date     *string       `json:"date"`
	Sessions []SessionMark `json:"sessions"`
}

type AttendanceSummary struct {
	SessionsByDay     []DayRecord `json:"sessionsByDay"`
	OverallPercentage float64     `json:"overallPercentage"`
}
