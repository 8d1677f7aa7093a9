package handlers

// StatusResponse is the body of the plain-echo health endpoints. The huma
// operations carry their own typed response models.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
