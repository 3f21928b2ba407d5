package domain

// TrainingStatus is the derived training-progress classification.
// It is computed from the raw timestamp pairs on every read and never
// persisted.
type TrainingStatus string

const (
	StatusNotStarted TrainingStatus = "NOT_STARTED"
	StatusInProgress TrainingStatus = "IN_PROGRESS"
	StatusFinished   TrainingStatus = "FINISHED"
)

// ValidStatus reports whether s is one of the three training statuses.
func ValidStatus(s TrainingStatus) bool {
	return s == StatusNotStarted || s == StatusInProgress || s == StatusFinished
}

// VideoDetail describes one video within a status projection.
type VideoDetail struct {
	VideoNumber     int     `json:"video_number"`
	VideoName       string  `json:"video_name"`
	Completed       bool    `json:"completed"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// EmployeeStatus is the full derived-status projection for one employee.
type EmployeeStatus struct {
	EmployeeID           string         `json:"employee_id"`
	EmployeeName         string         `json:"employee_name"`
	Email                string         `json:"email"`
	Department           string         `json:"department"`
	Status               TrainingStatus `json:"status"`
	CompletionPercentage float64        `json:"completion_percentage"`
	TotalTimeMinutes     float64        `json:"total_time_minutes"`
	CompletedVideos      []int          `json:"completed_videos"`
	CompletedVideosCount int            `json:"completed_videos_count"`
	MissingVideos        []int          `json:"missing_videos"`
	MissingVideosCount   int            `json:"missing_videos_count"`
	VideoDetails         []VideoDetail  `json:"video_details"`
	StartedAt            *string        `json:"started_at"`
	CompletedAt          *string        `json:"completed_at"`
}

// EmployeeSummary is the reduced projection used in cohort listings.
type EmployeeSummary struct {
	EmployeeID           string         `json:"employee_id"`
	EmployeeName         string         `json:"employee_name"`
	Email                string         `json:"email"`
	Department           string         `json:"department"`
	Status               TrainingStatus `json:"status"`
	CompletedVideosCount int            `json:"completed_videos_count"`
	CompletionPercentage float64        `json:"completion_percentage"`
	TotalTimeMinutes     float64        `json:"total_time_minutes"`
}

// TimedEmployee names an employee together with their total training time.
// Used for the fastest/slowest slots of the global summary.
type TimedEmployee struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	TimeMinutes float64 `json:"time_minutes"`
}

// GlobalSummary aggregates training progress across all employees.
// Timing fields cover the FINISHED subset only and stay zero/nil when
// no employee has finished.
type GlobalSummary struct {
	TotalEmployees         int            `json:"total_employees"`
	FinishedEmployeesCount int            `json:"finished_employees_count"`
	NotStartedCount        int            `json:"not_started_count"`
	InProgressCount        int            `json:"in_progress_count"`
	MaxTimeMinutes         float64        `json:"max_time_minutes"`
	MinTimeMinutes         float64        `json:"min_time_minutes"`
	AverageTimeMinutes     float64        `json:"average_time_minutes"`
	FastestEmployee        *TimedEmployee `json:"fastest_employee"`
	SlowestEmployee        *TimedEmployee `json:"slowest_employee"`
}
