package service

import (
	"strings"

	"tailordesk/internal/core/domain"
)

const (
	newOrderInstructions = "📝 *NEW ORDER: START*\n" +
		"Please provide the order details in one message, separating each field with a pipe symbol (|).\n\n" +
		"The expected format is a numbered list:\n" +
		"1. Client Name\n" +
		"2. Garment Type\n" +
		"3. Fabric Type\n" +
		"4. Quantity Needed (e.g., *3m* or *5.5 yards*)\n" +
		"5. Job Out Date (*YYYY-MM-DD*)\n\n" +
		"*Example: " + newOrderUsage + "*"

	stockInstructions = "📦 *STOCK CHECK*\n" +
		"Send `stock [material name]` to check inventory.\n" +
		"Example: `stock silk` or just `stock` for the full list."

	jobActionInstructions = "🧵 *JOB ACTIONS*\n" +
		"▶️ Send `start [ID]` to begin working (Status: IN_PROGRESS).\n" +
		"✅ Send `complete [ID]` to mark an order as finished (Status: COMPLETE)."

	prioritizeInstructions = "🔥 *PRIORITIZE*\n" +
		"Send `prioritize [Client Name]` to mark orders as urgent, or just `prioritize` to list overdue jobs."

	collectedInstructions = "💰 *COLLECTED*\n" +
		"Send `collected [ID]` to mark an order as paid and picked up."

	addStockInstructions = "➕ *ADD STOCK*\n" +
		"Send `addstock [Material] | [Quantity] | [Unit]` to update inventory.\n" +
		"Example: `" + addStockUsage + "`"
)

// helpMenu is the role-specific numbered menu, also the fallback reply for
// anything unrecognized.
func (e *Engine) helpMenu(role domain.Role) string {
	var b strings.Builder

	switch {
	case role == domain.RoleManager:
		b.WriteString("👋 *Welcome, Manager!* Select an option (e.g., send *1*):")
	case role.IsTailor():
		b.WriteString("🧵 *Welcome, Tailor!* Select your next action:")
	case role == domain.RoleSales:
		b.WriteString("👔 *Welcome, Sales!* Select an option below:")
	default:
		b.WriteString("Hello! Choose an option by number:")
	}

	b.WriteString("\n\n*General Functions (All Roles):*\n")
	b.WriteString("1. ➕ Create New Order\n")
	b.WriteString("2. 📋 View Pending Jobs\n")
	b.WriteString("3. 📦 Check Store Stock\n")
	b.WriteString("4. 🔎 Run Database Query\n")

	switch {
	case role.IsTailor():
		b.WriteString("\n*Tailor Actions:*\n")
		b.WriteString("5. ▶️ Start / ✅ Complete a Job\n")
	case role == domain.RoleManager:
		b.WriteString("\n*Manager Actions:*\n")
		b.WriteString("5. 🔥 Prioritize Jobs\n")
		b.WriteString("6. 💰 Mark as Collected\n")
		b.WriteString("7. ➕ Add Stock\n")
	case role == domain.RoleSales:
		b.WriteString("\n*Sales Actions:*\n")
		b.WriteString("5. 💰 Mark as Collected\n")
		b.WriteString("6. ➕ Add Stock\n")
	}

	return strings.TrimRight(b.String(), "\n")
}
