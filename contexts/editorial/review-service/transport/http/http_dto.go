package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitReviewRequest struct {
	ReviewerID     string             `json:"reviewer_id"`
	Recommendation string             `json:"recommendation"`
	Scores         map[string]float64 `json:"scores,omitempty"`
	Comments       string             `json:"comments,omitempty"`
}

type ReviewDTO struct {
	ReviewID       string             `json:"review_id"`
	AssignmentID   string             `json:"assignment_id"`
	ReviewerID     string             `json:"reviewer_id"`
	Recommendation string             `json:"recommendation"`
	Scores         map[string]float64 `json:"scores,omitempty"`
	Comments       string             `json:"comments,omitempty"`
	SubmittedAt    string             `json:"submitted_at"`
	UpdatedAt      string             `json:"updated_at"`
}

type SubmitReviewResponse struct {
	Review    ReviewDTO `json:"review"`
	WasUpdate bool      `json:"was_update"`
}

type ListReviewsResponse struct {
	Items []ReviewDTO `json:"items"`
}

type ConsolidatedResponse struct {
	AssignmentID string             `json:"assignment_id"`
	Overall      string             `json:"overall"`
	Pending      bool               `json:"pending"`
	ReviewCount  int                `json:"review_count"`
	MeanScores   map[string]float64 `json:"mean_scores,omitempty"`
}
