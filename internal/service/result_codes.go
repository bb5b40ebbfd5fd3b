package service

import (
	"errors"
	"fmt"
)

// Code es el codigo de resultado que viaja en p_result_code.
type Code string

const (
	CodeSuccess          Code = "SUCCESS"
	CodeInvalidParameter Code = "INVALID_PARAMETER"
	CodeMissingName      Code = "MISSING_NAME"
	CodeMissingComment   Code = "MISSING_COMMENT"
	CodeDuplicateName    Code = "DUPLICATE_NAME"
	CodeNotFound         Code = "NOT_FOUND"
	CodeNoPermission     Code = "NO_PERMISSION"
	CodeError            Code = "ERROR"
)

var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrMissingName      = errors.New("collection name is required")
	ErrMissingComment   = errors.New("personal comment is required")
	ErrDuplicateName    = errors.New("collection name already in use")
	ErrNotFound         = errors.New("not found")
	ErrNoPermission     = errors.New("no permission")
)

// StoreError envuelve cualquier fallo de un colaborador (base, cache). Siempre mapea a ERROR.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// CodeOf traduce un error del servicio a su codigo de resultado. nil es SUCCESS.
func CodeOf(err error) Code {
	var se *StoreError
	switch {
	case err == nil:
		return CodeSuccess
	case errors.As(err, &se):
		return CodeError
	case errors.Is(err, ErrInvalidParameter):
		return CodeInvalidParameter
	case errors.Is(err, ErrMissingName):
		return CodeMissingName
	case errors.Is(err, ErrMissingComment):
		return CodeMissingComment
	case errors.Is(err, ErrDuplicateName):
		return CodeDuplicateName
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrNoPermission):
		return CodeNoPermission
	default:
		return CodeError
	}
}
