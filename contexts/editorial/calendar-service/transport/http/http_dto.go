package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DeadlineDTO struct {
	AssignmentID string   `json:"assignment_id"`
	ContentID    string   `json:"content_id"`
	ReviewerIDs  []string `json:"reviewer_ids"`
	Deadline     string   `json:"deadline"`
	Overdue      bool     `json:"overdue"`
}

type DayBucketDTO struct {
	Day       string        `json:"day"`
	Deadlines []DeadlineDTO `json:"deadlines"`
}

type CalendarResponse struct {
	Days []DayBucketDTO `json:"days"`
}

type UpcomingDeadlinesResponse struct {
	Items []DeadlineDTO `json:"items"`
}

type ActivityDTO struct {
	EventID    string `json:"event_id"`
	EventType  string `json:"event_type"`
	ContentID  string `json:"content_id"`
	State      string `json:"state,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

type RecentActivityResponse struct {
	Items []ActivityDTO `json:"items"`
}
