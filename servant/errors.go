package servant

import "errors"

var (
	ErrNilServant     = errors.New("servant is nil")
	ErrNilContext     = errors.New("servant context is nil")
	ErrEmptyPath      = errors.New("servant path is empty")
	ErrDuplicatePath  = errors.New("servant path already registered")
	ErrServiceUnknown = errors.New("no servant registered for path")
)
