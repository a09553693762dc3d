package isa

import (
	"errors"
	"fmt"
)

// DuplicateNameError reports an allocation under a name that already
// holds a soliton. Slot pairs are never freed, so a name can be bound at
// most once per compilation.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("soliton %q already allocated", e.Name)
}

// NotFoundError reports a lookup of a name with no allocated soliton.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("soliton %q not found", e.Name)
}

// InvalidValueError reports an operand outside an operation's domain,
// such as an S_WRITE literal that is neither pole nor sentinel.
type InvalidValueError struct {
	Op      Opcode
	Message string
}

func (e *InvalidValueError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// IsDuplicateName reports whether err is a DuplicateNameError.
// Uses errors.As to handle wrapped errors.
func IsDuplicateName(err error) bool {
	var de *DuplicateNameError
	return errors.As(err, &de)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}
