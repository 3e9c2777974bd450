package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 13000-13099: Submission form errors
// 13100-13199: Execution backend errors
// 13200-13299: Submission list view errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	TooManyRequests     ErrorCode = 10006
	ServiceUnavailable  ErrorCode = 10007
	Timeout             ErrorCode = 10008

	// Cache errors (10200-10299)
	CacheError     ErrorCode = 10200
	CacheMiss      ErrorCode = 10201
	CacheSetFailed ErrorCode = 10202

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	InvalidValue       ErrorCode = 10302
	RequiredFieldEmpty ErrorCode = 10303

	// ========== Submission Form Errors (13000-13099) ==========

	SubmissionCreateFailed ErrorCode = 13001
	LanguageNotSupported   ErrorCode = 13003
	SubmitInFlight         ErrorCode = 13004

	// ========== Execution Backend Errors (13100-13199) ==========

	BackendUnavailable   ErrorCode = 13100
	BackendRequestFailed ErrorCode = 13101

	// ========== Submission List Errors (13200-13299) ==========

	SubmissionListFailed ErrorCode = 13200
	ViewExpired          ErrorCode = 13201
	SubmissionNotFound   ErrorCode = 13202
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	// Cache
	CacheError:     "Cache operation failed",
	CacheMiss:      "Cache miss",
	CacheSetFailed: "Failed to set cache",

	// Validation
	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	InvalidValue:       "Invalid value",
	RequiredFieldEmpty: "Please fill in all fields.",

	// Submission form
	SubmissionCreateFailed: "An error occurred while submitting the form.",
	LanguageNotSupported:   "Programming language not supported",
	SubmitInFlight:         "A submission is already in progress",

	// Execution backend
	BackendUnavailable:   "Execution backend is unreachable",
	BackendRequestFailed: "Execution backend rejected the request",

	// Submission list
	SubmissionListFailed: "An error occurred while fetching submissions",
	ViewExpired:          "Submission view has expired",
	SubmissionNotFound:   "Submission not found",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == SubmissionNotFound, c == ViewExpired:
		return 404
	case c == TooManyRequests, c == SubmitInFlight:
		return 429
	case c == ServiceUnavailable, c == BackendUnavailable:
		return 503
	case c == BackendRequestFailed, c == SubmissionCreateFailed, c == SubmissionListFailed:
		return 502
	case c == Timeout:
		return 504
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == LanguageNotSupported:
		return 400
	default:
		return 500
	}
}

// IsTransport reports whether the code describes a failure talking to the backend.
func (c ErrorCode) IsTransport() bool {
	return c == BackendUnavailable || c == BackendRequestFailed || c == Timeout || c == InvalidFormat
}
