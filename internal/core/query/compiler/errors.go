package compiler

import "errors"

var (
	ErrInvalidQuery        = errors.New("invalid query")
	ErrInvalidFunctionName = errors.New("invalid function name")
	ErrUnsupportedDialect  = errors.New("unsupported dialect")
)
