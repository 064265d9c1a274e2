package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarModel_ApplyDefaults(t *testing.T) {
	m := CarModel{CarMakeID: 1, Name: "Qashqai"}
	m.ApplyDefaults()

	assert.Equal(t, CarTypeSUV, m.Type)
	assert.Equal(t, MaxModelYear(), m.Year)
	require.NoError(t, m.Validate())
}

func TestCarModel_Validate(t *testing.T) {
	tests := []struct {
		name  string
		model CarModel
		err   error
	}{
		{"valid", CarModel{CarMakeID: 1, Name: "A4", Type: CarTypeSedan, Year: 2020}, nil},
		{"no make", CarModel{Name: "A4", Type: CarTypeSedan, Year: 2020}, ErrMissingCarMake},
		{"empty name", CarModel{CarMakeID: 1, Type: CarTypeSedan, Year: 2020}, ErrEmptyName},
		{"long name", CarModel{CarMakeID: 1, Name: strings.Repeat("x", 21), Type: CarTypeSUV, Year: 2020}, ErrNameTooLong},
		{"bad type", CarModel{CarMakeID: 1, Name: "A4", Type: "COUPE", Year: 2020}, ErrInvalidCarType},
		{"too old", CarModel{CarMakeID: 1, Name: "A4", Type: CarTypeWagon, Year: 2014}, ErrYearOutOfRange},
		{"future", CarModel{CarMakeID: 1, Name: "A4", Type: CarTypeWagon, Year: MaxModelYear() + 1}, ErrYearOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.model.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCarMake_Validate(t *testing.T) {
	assert.NoError(t, (&CarMake{Name: "Mercedes"}).Validate())
	assert.ErrorIs(t, (&CarMake{Name: strings.Repeat("é", 21)}).Validate(), ErrNameTooLong)
	assert.NoError(t, (&CarMake{Name: strings.Repeat("é", 20)}).Validate())
}
