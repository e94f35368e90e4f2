package apperror

// ErrorCode identifies an error category for API clients
type ErrorCode string

const (
	// Validation errors (400)
	ErrCodeValidationFailed ErrorCode = "VAL_INVALID_INPUT"

	// System errors (500)
	ErrCodeInternalError ErrorCode = "SYS_INTERNAL_ERROR"
)

// AppError is a business error carrying an API code and HTTP status
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

// WithDetails returns a copy of the error with details attached.
// Predefined errors are shared values and must not be mutated.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}
