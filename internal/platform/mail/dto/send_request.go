// Package dto defines the wire format of the mail API.
package dto

// SendRequest is the JSON body posted to the mail API.
type SendRequest struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

// ErrorResponse is returned by the mail API on failure.
type ErrorResponse struct {
	Message string `json:"message"`
}
