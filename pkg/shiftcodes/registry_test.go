package shiftcodes

import (
	"strings"
	"testing"

	"github.com/carefacility/roster-api-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry(t *testing.T) {
	r := Default()

	n, ok := r.Lookup("N")
	require.True(t, ok)
	assert.Equal(t, 12.0, n.Hours)
	assert.Equal(t, "N", r.NightCode())
	assert.Equal(t, "휴", r.RestCode())

	_, ok = r.Lookup("X")
	assert.False(t, ok)

	assert.True(t, r.IsDayPattern("S"))
	assert.True(t, r.IsDayPattern("D"))
	assert.False(t, r.IsDayPattern("N"))
	assert.True(t, r.IsAfternoon("A"))
	assert.False(t, r.IsAfternoon("X"))
}

func TestAllCodes_InsertionOrder(t *testing.T) {
	r := Default()
	codes := r.AllCodes()
	require.Len(t, codes, len(DefaultCatalog))
	for i, c := range codes {
		assert.Equal(t, DefaultCatalog[i].Code, c.Code)
	}

	// callers get a copy
	codes[0].Hours = 99
	s, _ := r.Lookup("S")
	assert.Equal(t, 9.0, s.Hours)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		codes []models.ShiftCode
		err   error
	}{
		{"duplicate", []models.ShiftCode{
			{Code: "N", Kind: models.KindNight, Hours: 12},
			{Code: "N", Kind: models.KindOff},
		}, ErrDuplicateCode},
		{"empty code", []models.ShiftCode{{Code: ""}}, ErrInvalidCode},
		{"negative hours", []models.ShiftCode{{Code: "S", Hours: -1}}, ErrInvalidCode},
		{"no night", []models.ShiftCode{{Code: "O", Kind: models.KindOff}}, ErrMissingKind},
		{"no off", []models.ShiftCode{{Code: "N", Kind: models.KindNight, Hours: 12}}, ErrMissingKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.codes)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadYAML(t *testing.T) {
	doc := `
codes:
  - code: E
    name: Early
    time_range: "06:00-14:00"
    hours: 8
    kind: day
  - code: L
    name: Late
    time_range: "14:00-22:00"
    hours: 8
    kind: afternoon
  - code: NN
    name: Night
    time_range: "22:00-06:00"
    hours: 8
    kind: night
  - code: O
    name: Off
    kind: off
`
	r, err := LoadYAML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "NN", r.NightCode())
	assert.Equal(t, "O", r.RestCode())
	assert.True(t, r.IsDayPattern("E"))

	codes := r.AllCodes()
	require.Len(t, codes, 4)
	assert.Equal(t, "14:00-22:00", codes[1].TimeRange)
}

func TestLoadYAML_Malformed(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("codes: [oops"))
	assert.Error(t, err)
}
