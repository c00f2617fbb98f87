package props

import "errors"

var (
	ErrEmptySource     = errors.New("configuration source is empty")
	ErrFormatUnknown   = errors.New("unknown configuration format")
	ErrDecodeFailed    = errors.New("failed to decode configuration")
	ErrUnsupportedType = errors.New("unsupported configuration value type")
)
