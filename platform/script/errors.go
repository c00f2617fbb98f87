package script

import "errors"

var (
	ErrEmptyModule     = errors.New("definition has no module")
	ErrUnknownModule   = errors.New("unknown module")
	ErrDuplicateModule = errors.New("module already registered")
	ErrNotContainer    = errors.New("module does not accept children")
	ErrNilFactory      = errors.New("factory returned nil")
	ErrConfigure       = errors.New("logiclet configuration failed")
	ErrNoVariables     = errors.New("variable store is nil")
)
