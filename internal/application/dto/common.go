package dto

// ErrorResponse formato uniforme de error para la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
