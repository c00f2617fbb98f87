package call

import "errors"

var (
	ErrClosed        = errors.New("call is closed")
	ErrNoPath        = errors.New("call has no target path")
	ErrUnknownCall   = errors.New("unknown call")
	ErrUnknownModule = errors.New("unknown call module")
	ErrDuplicate     = errors.New("already registered")
	ErrTimeout       = errors.New("call timed out")
	ErrTransport     = errors.New("call transport failed")
	ErrBadResponse   = errors.New("malformed call response")
)
