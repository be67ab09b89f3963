// Package labmet holds the agro-meteorological model chain (radiation,
// evapotranspiration, water balance, crop fixes and productivity) and the
// error kinds shared by its sub-packages.
package labmet

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrType is returned when a numeric input cannot be read as a float.
	ErrType = errors.New("labmet: invalid numeric type")
	// ErrRange is returned when an input falls outside its physical domain.
	ErrRange = errors.New("labmet: value out of range")
	// ErrNotFound is returned when a crop name is not in the reference tables.
	ErrNotFound = errors.New("labmet: not found")
	// ErrState is returned when a stateful component is queried before its first update.
	ErrState = errors.New("labmet: not yet initialized")
	// ErrDomain is returned when a formula is evaluated outside its mathematical domain.
	ErrDomain = errors.New("labmet: outside formula domain")
)

// NotFoundError reports an unknown crop together with the valid names.
type NotFoundError struct {
	Name  string
	Valid []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("crop %q not found, available crops: %s", e.Name, strings.Join(e.Valid, ", "))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Rangef wraps ErrRange with a formatted detail.
func Rangef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRange, fmt.Sprintf(format, args...))
}

// Domainf wraps ErrDomain with a formatted detail.
func Domainf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDomain, fmt.Sprintf(format, args...))
}

// Float converts decoded JSON values (numbers or numeric strings, comma
// decimals accepted) to float64.
func Float(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrType, t.String())
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(t), ",", "."), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrType, t)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("%w: missing value", ErrType)
	}
	return 0, fmt.Errorf("%w: %T", ErrType, v)
}
