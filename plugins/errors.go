package plugins

import "errors"

var (
	ErrConfig     = errors.New("invalid logiclet configuration")
	ErrNoCalls    = errors.New("no call provider configured")
	ErrCallFailed = errors.New("remote call failed")
)
