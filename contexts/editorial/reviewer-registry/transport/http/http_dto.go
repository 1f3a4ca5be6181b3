package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RegisterReviewerRequest struct {
	DisplayName string   `json:"display_name"`
	Expertise   []string `json:"expertise"`
	Available   bool     `json:"available"`
	Rating      float64  `json:"rating,omitempty"`
}

type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}

type ReviewerDTO struct {
	ReviewerID       string   `json:"reviewer_id"`
	DisplayName      string   `json:"display_name"`
	Expertise        []string `json:"expertise"`
	Available        bool     `json:"available"`
	Workload         int      `json:"workload"`
	Rating           float64  `json:"rating"`
	CompletedReviews int      `json:"completed_reviews"`
	RejectionRate    float64  `json:"rejection_rate"`
	LastActiveAt     string   `json:"last_active_at"`
}

type ReviewerResponse struct {
	Reviewer ReviewerDTO `json:"reviewer"`
}

type ListReviewersResponse struct {
	Items []ReviewerDTO `json:"items"`
}
