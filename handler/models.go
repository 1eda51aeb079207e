package handler

// PredictRequest represents the expected JSON structure in the request body.
type PredictRequest struct {
	ItemID string `json:"item_id"`
	Date   string `json:"date"`
}

// ErrorResponse is the envelope written for every failed request. Error is
// usually a string, but a prediction process may report any JSON value.
type ErrorResponse struct {
	Error   any     `json:"error"`
	Details *string `json:"details,omitempty"`
}
