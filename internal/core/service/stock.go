package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const addStockUsage = "addstock Linen | 100 | meters"

// handleStock lists the whole inventory, or looks up one material by
// substring.
func (e *Engine) handleStock(ctx context.Context, args string) (string, error) {
	query := strings.TrimSpace(args)

	if query == "" {
		items, err := e.stock.List(ctx)
		if err != nil {
			return "", storeFailure(err)
		}
		if len(items) == 0 {
			return "The store inventory is empty. Use `addstock` to add material.", nil
		}
		var b strings.Builder
		b.WriteString("📦 *Current Store Inventory:*\n")
		for _, it := range items {
			fmt.Fprintf(&b, "- *%s*: %.1f %s\n", it.Material, it.Quantity, it.Unit)
		}
		return strings.TrimRight(b.String(), "\n"), nil
	}

	item, err := e.stock.Find(ctx, query)
	if err != nil {
		return "", storeFailure(err)
	}
	if item == nil {
		return "", notFound("No stock matching '%s'.", query)
	}
	return fmt.Sprintf("✅ *Stock found:* %s has *%.1f %s* left.", item.Material, item.Quantity, item.Unit), nil
}

// handleAddStock tops up a material, creating it on first use. Top-ups
// accumulate; the reply carries the new running total.
func (e *Engine) handleAddStock(ctx context.Context, args string) (string, error) {
	parts := splitFields(strings.TrimSpace(args))
	if len(parts) < 3 {
		return "", formatErr("Invalid format.", addStockUsage)
	}

	material := strings.TrimSpace(parts[0])
	unit := strings.TrimSpace(parts[2])
	quantity, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return "", formatErr("Quantity must be a number.", addStockUsage)
	}
	if quantity <= 0 {
		return "", formatErr("Quantity must be a positive number.", addStockUsage)
	}
	if material == "" || unit == "" {
		return "", formatErr("Material and unit must not be empty.", addStockUsage)
	}

	item, err := e.stock.AddStock(ctx, material, quantity, unit)
	if err != nil {
		return "", storeFailure(err)
	}
	return fmt.Sprintf("✅ *Stock Updated!* Added %.1f %s of *%s*.\n📦 New Total: *%.1f %s*.",
		quantity, unit, item.Material, item.Quantity, item.Unit), nil
}
