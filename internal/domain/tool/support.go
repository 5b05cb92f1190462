package tool

import (
	"context"
	"errors"
	"strings"

	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/status"
)

const msgNeedsCustomer = "Primero identifica al cliente para consultar sus pedidos"

func (x *Executor) storeInfo(ctx context.Context, scope Scope, _ *noArgs) Result {
	org, err := x.store.GetOrganization(ctx, scope.TenantID)
	if err != nil {
		if commerce.IsNotFound(err) {
			return failure("Información de la tienda no disponible")
		}
		return x.fromError(ctx, GetStoreInfo, err)
	}
	return success(StoreInfo{
		Name:          org.Name,
		Description:   org.Description,
		Email:         org.Email,
		Phone:         org.Phone,
		WhatsApp:      org.WhatsApp,
		Address:       org.Address,
		City:          org.City,
		BusinessHours: org.BusinessHours,
		Website:       org.Website,
		Currency:      org.Currency,
	})
}

func (x *Executor) orderStatus(ctx context.Context, scope Scope, args *orderStatusArgs) Result {
	if scope.CustomerID == "" {
		return rejected(msgNeedsCustomer)
	}
	number := strings.TrimPrefix(strings.TrimSpace(args.OrderNumber), "#")
	order, err := x.store.FindOrder(ctx, scope.TenantID, scope.CustomerID, number)
	if err != nil {
		if commerce.IsNotFound(err) {
			return failure("Pedido no encontrado")
		}
		return x.fromError(ctx, GetOrderStatus, err)
	}
	return success(newOrderView(order, true))
}

func (x *Executor) customerHistory(ctx context.Context, scope Scope, args *customerHistoryArgs) Result {
	if scope.CustomerID == "" {
		return rejected(msgNeedsCustomer)
	}
	orders, err := x.store.ListRecentOrders(ctx, scope.TenantID, scope.CustomerID, *args.Limit)
	if err != nil {
		return x.fromError(ctx, GetCustomerHistory, err)
	}
	history := CustomerHistory{CustomerID: scope.CustomerID, Orders: make([]OrderView, 0, len(orders))}
	for i := range orders {
		history.Orders = append(history.Orders, newOrderView(&orders[i], false))
	}
	return success(history)
}

// escalate hands the conversation over to a human. The status change is committed before
// the notice is sent in the background; a failed notice does not undo it.
func (x *Executor) escalate(ctx context.Context, scope Scope, args *escalateArgs) Result {
	conv, err := x.conversations.FindByID(ctx, scope.TenantID, scope.ConversationID)
	if err != nil {
		return x.fromError(ctx, EscalateToHuman, err)
	}

	view := EscalationView{
		ConversationID: conv.ID,
		Status:         string(status.StatusEscalated),
		Reason:         args.Reason,
		Priority:       args.Priority,
	}
	if conv.Status == status.StatusEscalated {
		view.AlreadyEscalated = true
		return success(view)
	}

	next, err := conv.Status.TransitionTo(status.StatusEscalated)
	if err != nil {
		if errors.Is(err, status.ErrInvalidTransition) {
			return rejected("La conversación está cerrada y no puede transferirse")
		}
		return x.fromError(ctx, EscalateToHuman, err)
	}
	reason := args.Reason
	if err := x.conversations.UpdateStatus(ctx, scope.TenantID, conv.ID, conversation.StatusUpdate{
		Status:           next,
		EscalationReason: &reason,
	}); err != nil {
		return x.fromError(ctx, EscalateToHuman, err)
	}

	x.notify(ctx, Escalation{
		TenantID:       scope.TenantID,
		ConversationID: conv.ID,
		CustomerID:     scope.CustomerID,
		Reason:         args.Reason,
		Priority:       args.Priority,
		RequestedAt:    x.now().UTC(),
	})
	return success(view)
}

func (x *Executor) notify(ctx context.Context, escalation Escalation) {
	if x.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	x.background.Add(1)
	go func() {
		defer x.background.Done()
		ctx, cancel := context.WithTimeout(ctx, x.notifyTimeout)
		defer cancel()
		if err := x.notifier.NotifyEscalation(ctx, escalation); err != nil {
			x.log.Warn().Err(err).
				Str("conversation_id", escalation.ConversationID).
				Msg("escalation notice failed")
		}
	}()
}
