package fault

import (
	"errors"
	"fmt"
)

type faultCode string

const (
	UnknownCode  faultCode = "unknown"
	NotFoundCode faultCode = "not_found"
	BadInputCode faultCode = "bad_input"
	MappingCode  faultCode = "mapping"

	// Soft codes. They are reported next to a best-effort result and never
	// abort a translation.
	UnsupportedFunctionCode faultCode = "unsupported_function"
	UnsupportedShapeCode    faultCode = "unsupported_shape"
	UnknownFieldTypeCode    faultCode = "unknown_field_type"
)

type FieldErrorsMetadata map[string][]string

type Fault struct {
	code     faultCode
	message  string
	metadata any
	original error
}

func New(code faultCode, message string) Fault {
	return Fault{
		code:    code,
		message: message,
	}
}

func (f Fault) WithMetadata(metadata any) Fault {
	e := f
	e.metadata = metadata
	return e
}

func (f Fault) WithOriginal(original error) Fault {
	e := f
	e.original = original
	return e
}

func (f Fault) Code() faultCode {
	return f.code
}

func (f Fault) Message() string {
	return f.message
}

func (f Fault) Metadata() any {
	return f.metadata
}

func (f Fault) Original() error {
	return f.original
}

func (f Fault) Unwrap() error {
	return f.original
}

func (f Fault) Error() string {
	if f.original != nil {
		return fmt.Sprintf("%s: %v", f.message, f.original)
	}
	return f.message
}

// IsSoft reports whether err carries one of the soft codes.
func IsSoft(err error) bool {
	var f Fault
	if !errors.As(err, &f) {
		return false
	}

	switch f.code {
	case UnsupportedFunctionCode, UnsupportedShapeCode, UnknownFieldTypeCode:
		return true
	default:
		return false
	}
}

// HasCode reports whether err is a Fault with the given code.
func HasCode(err error, code faultCode) bool {
	var f Fault
	return errors.As(err, &f) && f.code == code
}
