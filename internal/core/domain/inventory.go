package domain

import (
	"fmt"
	"strings"
)

// InventoryItem is a stocked material. Material names are unique
// case-insensitively.
type InventoryItem struct {
	Material string
	Quantity float64
	Unit     string
}

// Allocation is the outcome of drawing a required quantity against stock.
type Allocation struct {
	Matched   bool    // a stocked material matched the fabric query
	Material  string  // matched material name, empty when no match
	NewStock  float64 // stock remaining after the deduction
	Shortfall string  // NoShortfall, or "Q unit of fabric" still to buy
}

// Covered reports whether stock fully covered the requirement.
func (a Allocation) Covered() bool {
	return a.Shortfall == NoShortfall
}

// Allocate decides how much of a requirement stock can cover. item is the
// matched inventory row (nil when lookup missed). Stock is only drawn when
// the stored unit names the requested unit, compared case-insensitively;
// units are never auto-converted. The deduction clamps at zero and the
// deficit is reported, never silently dropped.
func Allocate(item *InventoryItem, required float64, unit, fabric string) Allocation {
	if item == nil || !strings.EqualFold(item.Unit, unit) {
		return Allocation{
			Shortfall: shortfallText(required, unit, fabric),
		}
	}

	if item.Quantity >= required {
		return Allocation{
			Matched:   true,
			Material:  item.Material,
			NewStock:  item.Quantity - required,
			Shortfall: NoShortfall,
		}
	}

	return Allocation{
		Matched:   true,
		Material:  item.Material,
		NewStock:  0,
		Shortfall: shortfallText(required-item.Quantity, unit, fabric),
	}
}

func shortfallText(qty float64, unit, fabric string) string {
	return fmt.Sprintf("%.1f %s of %s", qty, unit, fabric)
}
