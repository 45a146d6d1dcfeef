package kinematics

import "fmt"

// ParseError reports a ratio token that is not a finite number.
type ParseError struct {
	Index int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not convert ratio %d %q to float", e.Index+1, e.Token)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DivisionError reports a zero ratio, which would divide the speed by zero.
type DivisionError struct {
	Index int
}

func (e *DivisionError) Error() string {
	return fmt.Sprintf("float division by zero: ratio %d is 0", e.Index+1)
}

// ValidationError reports an input outside the accepted domain.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ToothCountError reports a fractional tooth product under RejectFractional.
type ToothCountError struct {
	Index int
	Value float64
}

func (e *ToothCountError) Error() string {
	return fmt.Sprintf("gear %d would have %g teeth, not a whole number", e.Index+1, e.Value)
}
