package oerror

import "fmt"

type EngineError struct {
	Err string
}

func New(format string, args ...interface{}) *EngineError {
	return &EngineError{Err: fmt.Sprintf(format, args...)}
}

func (e *EngineError) Error() string {
	return e.Err
}
