package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type AssignContentRequest struct {
	ContentID   string   `json:"content_id"`
	ReviewerIDs []string `json:"reviewer_ids"`
	Notes       string   `json:"notes,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
}

type ExtendDeadlineRequest struct {
	NewDeadline string `json:"new_deadline"`
}

type AssignmentDTO struct {
	AssignmentID string   `json:"assignment_id"`
	ContentID    string   `json:"content_id"`
	ReviewerIDs  []string `json:"reviewer_ids"`
	Notes        string   `json:"notes,omitempty"`
	Deadline     string   `json:"deadline"`
	Status       string   `json:"status"`
	Overdue      bool     `json:"overdue"`
	CreatedAt    string   `json:"created_at"`
	ReleasedAt   string   `json:"released_at,omitempty"`
}

type AssignmentResponse struct {
	Assignment AssignmentDTO `json:"assignment"`
}

type ListAssignmentsResponse struct {
	Items []AssignmentDTO `json:"items"`
}

type SuggestedReviewerDTO struct {
	ReviewerID   string   `json:"reviewer_id"`
	Expertise    []string `json:"expertise"`
	Workload     int      `json:"workload"`
	Rating       float64  `json:"rating"`
	LastActiveAt string   `json:"last_active_at"`
}

type SuggestReviewersResponse struct {
	Items []SuggestedReviewerDTO `json:"items"`
}
