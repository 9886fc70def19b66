package units

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidNumber is returned for text that is not a number.
var ErrInvalidNumber = errors.New("units: invalid number")

// ParseNumber parses user typed numbers. Accepted forms are plain decimals
// ("12.5"), exponent notation ("1.2e5", "1.2 e 5") and explicit powers
// ("1.2*10^5", "10^5"). Whitespace anywhere in the text is ignored.
func ParseNumber(s string) (float64, error) {
	s = strings.Join(strings.Fields(s), "")
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNumber)
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789.+-eE*^", r) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
		}
	}

	var v float64
	if strings.Contains(s, "^") {
		coef := 1.0
		power := s
		if i := strings.IndexByte(s, '*'); i >= 0 {
			c, err := parseFloat(s[:i])
			if err != nil {
				return 0, err
			}
			coef, power = c, s[i+1:]
		}
		parts := strings.Split(power, "^")
		if len(parts) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
		}
		base, err := parseFloat(parts[0])
		if err != nil {
			return 0, err
		}
		exp, err := parseFloat(parts[1])
		if err != nil {
			return 0, err
		}
		v = coef * math.Pow(base, exp)
	} else {
		f, err := parseFloat(s)
		if err != nil {
			return 0, err
		}
		v = f
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidNumber, s)
	}
	return v, nil
}

func parseFloat(s string) (float64, error) {
	if strings.ContainsAny(s, "*^") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return f, nil
}

// FormatSci renders v with three significant digits, writing exponents in
// the "*10^N" form that ParseNumber reads back.
func FormatSci(v float64) string {
	s := strconv.FormatFloat(v, 'g', 3, 64)
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		exp := strings.TrimPrefix(s[i+1:], "+")
		if strings.HasPrefix(exp, "-") {
			exp = "-" + strings.TrimLeft(exp[1:], "0")
		} else {
			exp = strings.TrimLeft(exp, "0")
		}
		s = s[:i] + "*10^" + exp
	}
	return s
}

// MassString formats a mass given in Earth masses as kilograms.
func MassString(m float64) string {
	return FormatSci(EarthToKg(m)) + " kg"
}

// ParseMass reads a mass typed in kilograms (an optional "kg" suffix is
// allowed) and returns it in Earth masses.
func ParseMass(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "kg")
	kg, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	return KgToEarth(kg), nil
}

// SpeedString formats a speed given in units/day as km/s.
func SpeedString(v float64) string {
	return FormatSci(UnitsPerDayToKms(v)) + " km/s"
}

// ParseSpeed reads a speed typed in km/s (an optional "km/s" suffix is
// allowed) and returns it in units/day.
func ParseSpeed(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "km/s")
	kms, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	return KmsToUnitsPerDay(kms), nil
}
