package errors

// Error codes for standardized error responses
const (
	// Validation errors
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"
	ErrCodePayloadTooLarge  = "payload_too_large"

	// Grading errors
	ErrCodeGradingFailed  = "grading_failed"
	ErrCodeResultNotFound = "result_not_found"

	// Slideshow errors
	ErrCodeContainerNotFound = "container_not_found"
	ErrCodeContainerExists   = "container_exists"
	ErrCodeNoContainers      = "no_containers"
	ErrCodeIndicatorNotFound = "indicator_not_found"
	ErrCodeContainerFault    = "container_fault"

	// WebSocket errors
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"
	ErrCodeUnknownAction      = "unknown_action"

	// Server errors
	ErrCodeInternalError = "internal_error"
)
