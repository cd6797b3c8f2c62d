package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFaultError(t *testing.T) {
	original := errors.New("boom")

	f := New(MappingCode, "cannot resolve log source").WithOriginal(original)

	assert.Equal(t, "cannot resolve log source: boom", f.Error())
	assert.ErrorIs(t, f, original)
	assert.Equal(t, "cannot resolve log source", New(MappingCode, "cannot resolve log source").Error())
}

func TestIsSoft(t *testing.T) {
	tests := map[faultCode]bool{
		UnknownCode:             false,
		NotFoundCode:            false,
		BadInputCode:            false,
		MappingCode:             false,
		UnsupportedFunctionCode: true,
		UnsupportedShapeCode:    true,
		UnknownFieldTypeCode:    true,
	}

	for code, want := range tests {
		wrapped := fmt.Errorf("render: %w", New(code, "x"))
		assert.Equal(t, want, IsSoft(wrapped), "code %s", code)
	}

	assert.False(t, IsSoft(errors.New("plain")))
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("lookup: %w", New(NotFoundCode, "platform not found"))

	assert.True(t, HasCode(err, NotFoundCode))
	assert.False(t, HasCode(err, MappingCode))
}
