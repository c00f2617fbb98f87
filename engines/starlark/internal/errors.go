package internal

import "errors"

var ErrUnsupportedType = errors.New("unsupported starlark type")
