package shiftcodes

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/carefacility/roster-api-go/pkg/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrDuplicateCode = errors.New("duplicate shift code")
	ErrInvalidCode   = errors.New("invalid shift code")
	ErrMissingKind   = errors.New("catalog is missing a required shift kind")
)

// Registry is an ordered, read-only catalog of shift codes
type Registry struct {
	codes []models.ShiftCode
	index map[string]int
}

// DefaultCatalog is the facility's standard legend
var DefaultCatalog = []models.ShiftCode{
	{Code: "S", Name: "주간", TimeRange: "07:00-16:00", Hours: 9, Kind: models.KindDay},
	{Code: "D", Name: "일근", TimeRange: "09:00-18:00", Hours: 8, Kind: models.KindDay},
	{Code: "A", Name: "오후", TimeRange: "13:00-22:00", Hours: 9, Kind: models.KindAfternoon},
	{Code: "N", Name: "야간", TimeRange: "21:00-09:00", Hours: 12, Kind: models.KindNight},
	{Code: "휴", Name: "휴무", Hours: 0, Kind: models.KindOff},
	{Code: "연", Name: "연차", Hours: 0, Kind: models.KindLeave},
	{Code: "교", Name: "교육", TimeRange: "09:00-17:00", Hours: 8, Kind: models.KindOther},
}

// New builds a registry, rejecting empty or duplicate codes and negative hours.
// The catalog must contain a night code and an off code.
func New(codes []models.ShiftCode) (*Registry, error) {
	r := &Registry{
		codes: make([]models.ShiftCode, 0, len(codes)),
		index: make(map[string]int, len(codes)),
	}
	for _, c := range codes {
		if c.Code == "" {
			return nil, fmt.Errorf("%w: empty code", ErrInvalidCode)
		}
		if c.Hours < 0 {
			return nil, fmt.Errorf("%w: %q has negative hours", ErrInvalidCode, c.Code)
		}
		if _, exists := r.index[c.Code]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCode, c.Code)
		}
		if c.Kind == "" {
			c.Kind = models.KindOther
		}
		r.index[c.Code] = len(r.codes)
		r.codes = append(r.codes, c)
	}
	if r.firstOfKind(models.KindNight) == "" {
		return nil, fmt.Errorf("%w: night", ErrMissingKind)
	}
	if r.firstOfKind(models.KindOff) == "" {
		return nil, fmt.Errorf("%w: off", ErrMissingKind)
	}
	return r, nil
}

// Default returns the registry for DefaultCatalog
func Default() *Registry {
	r, err := New(DefaultCatalog)
	if err != nil {
		panic(err)
	}
	return r
}

type catalogFile struct {
	Codes []models.ShiftCode `yaml:"codes"`
}

// LoadYAML reads a catalog of the form `codes: [{code, name, time_range, hours, kind}]`
func LoadYAML(r io.Reader) (*Registry, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode shift code catalog: %w", err)
	}
	return New(f.Codes)
}

// LoadFile reads a YAML catalog from disk
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadYAML(f)
}

// Lookup returns the shift code with the given identifier
func (r *Registry) Lookup(code string) (models.ShiftCode, bool) {
	i, ok := r.index[code]
	if !ok {
		return models.ShiftCode{}, false
	}
	return r.codes[i], true
}

// AllCodes returns the catalog in insertion order
func (r *Registry) AllCodes() []models.ShiftCode {
	out := make([]models.ShiftCode, len(r.codes))
	copy(out, r.codes)
	return out
}

// NightCode is the code that triggers the night-rest rule
func (r *Registry) NightCode() string {
	return r.firstOfKind(models.KindNight)
}

// RestCode is the code written after a night shift and on days off
func (r *Registry) RestCode() string {
	return r.firstOfKind(models.KindOff)
}

// IsDayPattern reports whether code counts toward the day-shift total
func (r *Registry) IsDayPattern(code string) bool {
	c, ok := r.Lookup(code)
	return ok && c.Kind == models.KindDay
}

// IsAfternoon reports whether code counts toward the afternoon-shift total
func (r *Registry) IsAfternoon(code string) bool {
	c, ok := r.Lookup(code)
	return ok && c.Kind == models.KindAfternoon
}

func (r *Registry) firstOfKind(kind models.ShiftKind) string {
	for _, c := range r.codes {
		if c.Kind == kind {
			return c.Code
		}
	}
	return ""
}
