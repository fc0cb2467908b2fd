package dto

// GenerateSnapshotRequest is the body of POST /snapshots/generate.
type GenerateSnapshotRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required"`
}

// GenerateRangeRequest is the body of POST /snapshots/generate-range.
type GenerateRangeRequest struct {
	FromYear  int `json:"from_year" binding:"required"`
	FromMonth int `json:"from_month" binding:"required"`
	ToYear    int `json:"to_year" binding:"required"`
	ToMonth   int `json:"to_month" binding:"required"`
}

// SuccessResponse is a generic success envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
