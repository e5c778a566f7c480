package parser

import (
	"eosindex/internal/core/errors"
	"fmt"
)

// constructError builds a located engine error. line is 1-based.
func constructError(code errors.ErrorCode, file string, line int, format string, args ...interface{}) error {
	err := &errors.DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
	err.WithContext(errors.CtxFile, file)
	if line > 0 {
		err.WithContext(errors.CtxLine, line)
	}
	return err
}

func malformed(file string, line int, format string, args ...interface{}) error {
	return constructError(errors.CodeMalformedConstruct, file, line, format, args...)
}

// locate fills in file and line context the error does not already carry.
func locate(err error, file string, line int) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.ContextValue(err, errors.CtxFile); !ok {
		err = errors.AddContext(err, errors.CtxFile, file)
	}
	if _, ok := errors.ContextValue(err, errors.CtxLine); !ok && line > 0 {
		err = errors.AddContext(err, errors.CtxLine, line)
	}
	return err
}
