package service

import (
	"context"
	"fmt"
	"strings"

	"cosmetics-store-backend/internal/models"
	repository "cosmetics-store-backend/internal/repositories"
	"cosmetics-store-backend/pkg/sendgrid"
)

// OrderNotifier is the sink invoked once per order, after commit. Delivery is
// best-effort; the order engine swallows any error it returns.
type OrderNotifier interface {
	OrderCreated(ctx context.Context, order *models.Order) error
}

type emailOrderNotifier struct {
	emailService sendgrid.EmailService
	userRepo     repository.UserRepository
	ownerEmail   string
}

func NewEmailOrderNotifier(emailService sendgrid.EmailService, userRepo repository.UserRepository, ownerEmail string) OrderNotifier {
	return &emailOrderNotifier{emailService: emailService, userRepo: userRepo, ownerEmail: ownerEmail}
}

// OrderCreated mails the store owner a plain-text summary: buyer identity (or
// "Guest"), total amount and the itemized list.
func (n *emailOrderNotifier) OrderCreated(ctx context.Context, order *models.Order) error {

	customer := "Guest"

	if order.UserID != nil {

		user, err := n.userRepo.GetUserByID(ctx, *order.UserID)
		if err == nil {
			customer = user.Email
		} else {
			customer = order.UserID.String()
		}

	}

	var body strings.Builder

	fmt.Fprintf(&body, "Customer: %s\n", customer)
	fmt.Fprintf(&body, "Total price: $%s\n", order.TotalAmount.StringFixed(2))
	body.WriteString("Items:\n")

	for _, item := range order.Items {
		fmt.Fprintf(&body, " - %s x %d\n", item.Name, item.Quantity)
	}

	msg := &sendgrid.Message{
		To:        n.ownerEmail,
		Subject:   fmt.Sprintf("🛒 New Order #%s", order.ID),
		PlainText: body.String(),
	}

	return n.emailService.Send(ctx, msg)
}
