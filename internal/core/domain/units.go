package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CanonicalUnit is the unit every quantity is normalized to before storage.
const CanonicalUnit = "meters"

// HoursPerMeter drives the labor time estimate for an order.
const HoursPerMeter = 5.0

var (
	ErrBadQuantity = errors.New("quantity must be a number followed by a unit")
	ErrUnknownUnit = errors.New("unsupported unit")
)

// quantityPattern matches "3m", "5.5 yards", "120 cm".
var quantityPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([a-zA-Z]+)$`)

// metersPerUnit maps accepted unit spellings to their meter factor.
var metersPerUnit = map[string]float64{
	"m": 1, "meter": 1, "meters": 1, "metre": 1, "metres": 1,
	"cm": 0.01, "centimeter": 0.01, "centimeters": 0.01,
	"centimetre": 0.01, "centimetres": 0.01,
	"yd": 0.9144, "yard": 0.9144, "yards": 0.9144,
}

// Quantity is a parsed, normalized measurement.
type Quantity struct {
	Value float64 // in CanonicalUnit
	Input float64 // as entered
	Unit  string  // as entered, lowercased
	Note  string  // non-fatal conversion note, empty when none
}

// ParseQuantity normalizes a quantity token like "3m" or "5.5 yards" to
// meters. Unsupported units are rejected, not guessed.
func ParseQuantity(token string) (Quantity, error) {
	m := quantityPattern.FindStringSubmatch(strings.TrimSpace(token))
	if m == nil {
		return Quantity{}, ErrBadQuantity
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Quantity{}, ErrBadQuantity
	}
	unit := strings.ToLower(m[2])

	factor, ok := metersPerUnit[unit]
	if !ok {
		return Quantity{}, fmt.Errorf("%w %q", ErrUnknownUnit, unit)
	}

	q := Quantity{
		Value: value * factor,
		Input: value,
		Unit:  unit,
	}
	if factor == 0.01 {
		q.Note = fmt.Sprintf("Converted %.1f cm to %.2f meters.", value, q.Value)
	}
	return q, nil
}
