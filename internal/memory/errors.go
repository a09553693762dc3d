package memory

import (
	"errors"
	"fmt"
)

// AddressError reports access to an address outside the cylinder.
type AddressError struct {
	Address int
	Size    int
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("address %d out of range [0, %d)", e.Address, e.Size)
}

// GeometryError reports an atomicity violation: an interrupted rotation,
// a link touching a rotating cell, or a lowered sequence whose realized
// hardening count disagrees with the requested complexity.
type GeometryError struct {
	Message string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry shattered: %s", e.Message)
}

// InvalidValueError reports an operand outside an operation's domain,
// such as a self-link or a rotation target that is neither 0 nor 1.
type InvalidValueError struct {
	Message string
}

func (e *InvalidValueError) Error() string { return e.Message }

// IsGeometryError reports whether err is a GeometryError.
// Uses errors.As to handle wrapped errors.
func IsGeometryError(err error) bool {
	var ge *GeometryError
	return errors.As(err, &ge)
}

// IsAddressError reports whether err is an AddressError.
func IsAddressError(err error) bool {
	var ae *AddressError
	return errors.As(err, &ae)
}
