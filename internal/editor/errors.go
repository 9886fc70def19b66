package editor

import (
	"errors"
	"fmt"
)

// ErrNoSelection is returned by editors when no body is current.
var ErrNoSelection = errors.New("editor: no body selected")

// InputError reports text that could not be applied to a field. The
// targeted body is left unchanged.
type InputError struct {
	Field string
	Input string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: invalid value %q", e.Field, e.Input)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Notice is the text a front end should show for the error.
func (e *InputError) Notice() string { return MsgInvalidValue }
