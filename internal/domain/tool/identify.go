package tool

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/janhq/commerce-api/internal/domain/commerce"
)

func (x *Executor) identifyCustomer(ctx context.Context, scope Scope, args *identifyCustomerArgs) Result {
	email := strings.ToLower(strings.TrimSpace(args.Email))
	phone := normalizePhone(args.Phone)
	document := strings.TrimSpace(args.DocumentNumber)

	customer, err := x.store.FindCustomerByContact(ctx, scope.TenantID, commerce.CustomerLookup{
		Email:          email,
		Phone:          phone,
		DocumentType:   args.DocumentType,
		DocumentNumber: document,
	})
	if err != nil && !commerce.IsNotFound(err) {
		return x.fromError(ctx, IdentifyCustomer, err)
	}

	isNew := customer == nil
	if isNew {
		customer = &commerce.Customer{
			ID:       uuid.NewString(),
			TenantID: scope.TenantID,
		}
	}

	changed := isNew
	fill := func(field *string, value string) {
		if value != "" && *field == "" {
			*field = value
			changed = true
		}
	}
	fill(&customer.Name, strings.TrimSpace(args.Name))
	fill(&customer.Email, email)
	fill(&customer.Phone, phone)
	if document != "" && customer.DocumentNumber == "" {
		customer.DocumentType = args.DocumentType
		customer.DocumentNumber = document
		changed = true
	}

	if changed {
		if err := x.store.SaveCustomer(ctx, customer); err != nil {
			return x.fromError(ctx, IdentifyCustomer, err)
		}
	}
	if x.conversations != nil && scope.CustomerID != customer.ID {
		if err := x.conversations.SetCustomer(ctx, scope.TenantID, scope.ConversationID, customer.ID); err != nil {
			return x.fromError(ctx, IdentifyCustomer, err)
		}
	}

	result := success(newCustomerView(customer, isNew))
	result.CustomerID = customer.ID
	return result
}

func normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		if (r >= '0' && r <= '9') || (r == '+' && b.Len() == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
