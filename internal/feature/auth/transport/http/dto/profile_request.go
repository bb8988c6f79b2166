package dto

// UpdateProfileRequest represents the request body for PUT /auth/profile.
// Absent fields are nil and left unchanged.
type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}
