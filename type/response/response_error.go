package response

type ErrorResponse struct {
	Success bool    `json:"success"`
	Message *string `json:"message,omitempty"`
}

func Error(msg any) *ErrorResponse {
	if message, ok := msg.(string); ok {

		return &ErrorResponse{
			Success: false,
			Message: &message,
		}
	}
	unknown := "Unknown Error"
	return &ErrorResponse{
		Success: false,
		Message: &unknown,
	}
}
