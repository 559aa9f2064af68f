package responses

// APIResponse is the typed variant of the shared envelope, used where a
// handler's payload type is known at compile time. Wire fields match
// dtos.APIResponse so clients see one shape.
type APIResponse[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    *T     `json:"data,omitempty"`
}
