package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeRoomFull       = "room_full"
	ErrCodeAlreadyJoined  = "already_joined"
	ErrCodeNotInRoom      = "not_in_room"
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeRateLimited    = "rate_limited"
)

var (
	ErrRoomFull      = errors.New("room full")
	ErrAlreadyJoined = errors.New("already joined")
	ErrNotInRoom     = errors.New("not in room")
	ErrBadRequest    = errors.New("bad request")

	// ErrJoinTimeout ends a connection that never joined a room.
	ErrJoinTimeout = errors.New("join timeout")
	// ErrPeerOverflow ends a connection whose outbound queue filled up.
	ErrPeerOverflow = errors.New("peer outbound queue overflow")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
	err     error
}

func (e *CoreError) Error() string {
	return e.Message
}

func (e *CoreError) Unwrap() error {
	return e.err
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg, err: sentinelFor(code)}
}

func sentinelFor(code string) error {
	switch code {
	case ErrCodeRoomFull:
		return ErrRoomFull
	case ErrCodeAlreadyJoined:
		return ErrAlreadyJoined
	case ErrCodeNotInRoom:
		return ErrNotInRoom
	case ErrCodeBadRequest:
		return ErrBadRequest
	default:
		return nil
	}
}
