package httpcall

import "errors"

var ErrConfig = errors.New("invalid http call configuration")
