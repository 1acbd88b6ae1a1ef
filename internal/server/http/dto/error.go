package dto

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AckResponse answers webhook deliveries and health probes.
type AckResponse struct {
	OK bool `json:"ok"`
}
