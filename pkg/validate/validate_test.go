package validate_test

import (
	"errors"
	"testing"

	"github.com/Astemirdum/livraria/pkg/validate"
	"github.com/stretchr/testify/require"
)

type form struct {
	Name string `validate:"notblank"`
	Year int    `validate:"required,gte=1000"`
}

func TestCustomValidator_Validate(t *testing.T) {
	t.Parallel()
	cv := validate.NewCustomValidator()

	tests := []struct {
		name      string
		in        form
		wantField string
		wantTag   string
	}{
		{name: "ok", in: form{Name: "Alice", Year: 1965}},
		{name: "blank name", in: form{Name: "   ", Year: 1965}, wantField: "Name", wantTag: "notblank"},
		{name: "year too small", in: form{Name: "Alice", Year: 999}, wantField: "Year", wantTag: "gte"},
		{name: "year missing", in: form{Name: "Alice"}, wantField: "Year", wantTag: "required"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := cv.Validate(tt.in)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			fe, ok := validate.First(err)
			require.True(t, ok)
			require.Equal(t, tt.wantField, fe.Field)
			require.Equal(t, tt.wantTag, fe.Tag)
		})
	}
}

func TestFirst_NotValidationError(t *testing.T) {
	t.Parallel()
	_, ok := validate.First(errors.New("plain"))
	require.False(t, ok)
}
