package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type SubmitContentRequest struct {
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	Category    string `json:"category"`
	AuthorID    string `json:"author_id"`
	Priority    string `json:"priority"`
	Notes       string `json:"notes,omitempty"`
}

type EditorialDecisionRequest struct {
	EditorID string `json:"editor_id"`
	Notes    string `json:"notes"`
}

type ContentDTO struct {
	ContentID           string `json:"content_id"`
	Title               string `json:"title"`
	ContentType         string `json:"content_type"`
	Category            string `json:"category"`
	AuthorID            string `json:"author_id"`
	Priority            string `json:"priority"`
	State               string `json:"state"`
	EditorialNotes      string `json:"editorial_notes,omitempty"`
	SubmittedAt         string `json:"submitted_at"`
	ApprovedAt          string `json:"approved_at,omitempty"`
	ApprovedByUserID    string `json:"approved_by_user_id,omitempty"`
	ApprovalNotes       string `json:"approval_notes,omitempty"`
	RejectedAt          string `json:"rejected_at,omitempty"`
	RejectedByUserID    string `json:"rejected_by_user_id,omitempty"`
	RejectionNotes      string `json:"rejection_notes,omitempty"`
	RevisionRequestedAt string `json:"revision_requested_at,omitempty"`
	RevisionCount       int    `json:"revision_count"`
	UpdatedAt           string `json:"updated_at"`
}

type ContentResponse struct {
	Content ContentDTO `json:"content"`
}

type ListContentResponse struct {
	Items []ContentDTO `json:"items"`
}

type EditorialStatsResponse struct {
	Pending  int `json:"pending"`
	Assigned int `json:"assigned"`
	InReview int `json:"in_review"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
