package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// ConflictingSessionIDs is set only on scheduling conflicts so the
	// caller can point the user at the classes in the way.
	ConflictingSessionIDs []string `json:"conflicting_session_ids,omitempty"`
}

// Error Codes
type ErrCode string

var (
	FAILED_REQUEST     ErrCode = "REQUEST_FAILED"
	BAD_REQUEST        ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND          ErrCode = "NOT_FOUND"
	LOCKED             ErrCode = "LOCKED"
	CONFLICT           ErrCode = "SCHEDULING_CONFLICT"
	INVALID_TIMEZONE   ErrCode = "INVALID_TIMEZONE"
	INVALID_DATETIME   ErrCode = "INVALID_DATETIME"
	INVALID_DURATION   ErrCode = "INVALID_DURATION"
	INVALID_TRANSITION ErrCode = "INVALID_STATUS_TRANSITION"
	NONEXISTENT_TIME   ErrCode = "NONEXISTENT_LOCAL_TIME"
	AMBIGUOUS_TIME     ErrCode = "AMBIGUOUS_LOCAL_TIME"
)

var (
	ErrBadRequest              = errors.New("bad request")
	ErrNotFound                = errors.New("resource not found")
	ErrLocked                  = errors.New("resource is locked")
	ErrSchedulingConflict      = errors.New("time conflict with an existing class")
	ErrInvalidStatusTransition = errors.New("invalid session status transition")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}

// ConflictError carries the ids of the sessions the proposal collided with.
func ConflictError(msg string, sessionIDs []string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:                  string(CONFLICT),
			Message:               msg,
			ConflictingSessionIDs: sessionIDs,
		},
	}
}
