package service

import (
	"context"
	"errors"
	"log"

	"tailordesk/internal/core/domain"
	"tailordesk/internal/port"
)

const (
	accessDeniedReply = "🚫 *Access Denied*. Your number is not registered for any role."
	storeErrorReply   = "❌ *Database Error*: The operation could not be completed. No details are available here; ask the manager to check the server log."
	unexpectedReply   = "❌ *Something went wrong.* Please try again, or send an empty message for the menu."
)

// Engine turns one inbound text message into one reply. Role resolution,
// parsing, role-gating and handler dispatch all happen here; handlers touch
// the order and inventory repositories through their ports.
type Engine struct {
	roles  *RoleResolver
	orders port.OrderRepository
	stock  port.InventoryRepository
	dedup  port.DedupRepository // nil disables message dedup
	clock  port.Clock
}

// Request is one inbound message. MessageID is the transport's delivery id,
// used for dedup and log correlation; it may be empty.
type Request struct {
	Sender    string
	Body      string
	MessageID string
}

func New(roles *RoleResolver, orders port.OrderRepository, stock port.InventoryRepository, dedup port.DedupRepository, clock port.Clock) *Engine {
	return &Engine{
		roles:  roles,
		orders: orders,
		stock:  stock,
		dedup:  dedup,
		clock:  clock,
	}
}

// HandleMessage always returns a reply for a first delivery. Redelivered
// messages (same MessageID) get an empty reply so the command does not run
// twice. An unrecognized sender is denied before any parsing.
func (e *Engine) HandleMessage(ctx context.Context, req Request) string {
	role := e.roles.Resolve(req.Sender)
	if !role.Authenticated() {
		return accessDeniedReply
	}

	if e.dedup != nil && req.MessageID != "" {
		first, err := e.dedup.SetIdempotency(ctx, req.MessageID)
		if err != nil {
			// Dedup is best-effort; a broken cache must not block commands.
			log.Printf("dedup check failed for %s: %v", req.MessageID, err)
		} else if !first {
			log.Printf("duplicate delivery %s dropped", req.MessageID)
			return ""
		}
	}

	inv := ParseMessage(req.Body)
	reply, err := e.dispatch(ctx, role, inv)
	if err != nil {
		reply = e.errorReply(req, inv, err)
	}
	return reply
}

func (e *Engine) dispatch(ctx context.Context, role domain.Role, inv Invocation) (string, error) {
	if inv.IsMenu {
		return e.menuChoice(ctx, role, inv.Menu)
	}

	switch inv.Name {
	case "new":
		return e.handleNew(ctx, inv.Args)
	case "pending":
		return e.handlePending(ctx)
	case "stock":
		return e.handleStock(ctx, inv.Args)
	case "addstock":
		if role != domain.RoleManager && role != domain.RoleSales {
			break
		}
		return e.handleAddStock(ctx, inv.Args)
	case "start":
		return e.handleTransition(ctx, "start", inv.Args, domain.OrderStatusInProgress)
	case "complete":
		return e.handleTransition(ctx, "complete", inv.Args, domain.OrderStatusComplete)
	case "collected":
		if role != domain.RoleManager && role != domain.RoleSales {
			break
		}
		return e.handleTransition(ctx, "collected", inv.Args, domain.OrderStatusCollected)
	case "prioritize":
		if role != domain.RoleManager {
			break
		}
		return e.handlePrioritize(ctx, inv.Args)
	case "query":
		return e.handleQuery(ctx, inv.Args)
	default:
		// Not a known command: maybe a free-form order form, otherwise the
		// role menu.
		if looksLikeOrder(inv.Raw) {
			return e.handleNew(ctx, inv.Raw)
		}
	}
	return e.helpMenu(role), nil
}

// errorReply converts any handler failure into exactly one reply from the
// error taxonomy. Causes of store and unexpected failures are logged, never
// shown.
func (e *Engine) errorReply(req Request, inv Invocation, err error) string {
	var fe *FormatError
	if errors.As(err, &fe) {
		reply := "❌ *Input Error*: " + fe.Msg
		if fe.Usage != "" {
			reply += "\nExample: `" + fe.Usage + "`"
		}
		return reply
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		return "❌ " + nf.Msg
	}

	if errors.Is(err, ErrStore) {
		log.Printf("store failure (msg=%s cmd=%s): %v", req.MessageID, inv.Name, err)
		return storeErrorReply
	}

	log.Printf("unexpected failure (msg=%s cmd=%s): %v", req.MessageID, inv.Name, err)
	return unexpectedReply
}

// menuChoice resolves a bare-number reply. Numbering is role-sensitive:
// option 5 is job actions for a tailor, prioritization for the manager and
// collection for sales. Options 2 and 4 execute directly; the rest reply
// with usage instructions.
func (e *Engine) menuChoice(ctx context.Context, role domain.Role, n int) (string, error) {
	switch n {
	case 1:
		return newOrderInstructions, nil
	case 2:
		return e.handlePending(ctx)
	case 3:
		return stockInstructions, nil
	case 4:
		return e.handleQuery(ctx, "")
	case 5:
		switch {
		case role.IsTailor():
			return jobActionInstructions, nil
		case role == domain.RoleManager:
			return prioritizeInstructions, nil
		case role == domain.RoleSales:
			return collectedInstructions, nil
		}
	case 6:
		switch role {
		case domain.RoleManager:
			return collectedInstructions, nil
		case domain.RoleSales:
			return addStockInstructions, nil
		}
	case 7:
		if role == domain.RoleManager {
			return addStockInstructions, nil
		}
	}
	return e.helpMenu(role), nil
}
