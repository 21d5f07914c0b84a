package model

// Creation modes selected by the "type" field of a create request.
const (
	CreateTypeManual = "manual"
	CreateTypeAuto   = "auto"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse is returned with 422. Errors maps a field name to
// its violations.
type ValidationErrorResponse struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors"`
}

// GenerationErrorResponse is returned when auto-creation fails. Errors holds
// the raw reply of the generation endpoint.
type GenerationErrorResponse struct {
	Error  string `json:"error"`
	Errors any    `json:"errors" swaggertype:"object"`
}

// CreatedResponse acknowledges a manual creation.
type CreatedResponse struct {
	Response string   `json:"response"`
	Errors   []string `json:"errors"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PingResponse struct {
	Message string `json:"message"`
}

type RootResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
