package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/luissince/architect-portfolio-sub000/internal/domain"
	"github.com/luissince/architect-portfolio-sub000/internal/storage"
)

// Demo credential pair accepted by Login out of the box.
const (
	DemoEmail    = "demo@studio.com"
	DemoPassword = "demo123"
	DemoName     = "Demo Client"

	demoUserID = "usr-demo-0001"
)

// ensureDemoIdentity seeds the demo identity record on first use.
func (s *Service) ensureDemoIdentity(ctx context.Context) error {
	_, err := s.loadIdentity(ctx, DemoEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	return s.saveIdentity(ctx, identityRecord{
		User: domain.User{
			ID:    demoUserID,
			Name:  DemoName,
			Email: DemoEmail,
		},
		PasswordHash: string(hash),
	})
}

// seedDemoOrders writes the demo identity's historical orders on its
// first login, so the history views have something to show. It never
// touches a non-empty ledger.
func (s *Service) seedDemoOrders(ctx context.Context, ownerID string) error {
	existing, err := s.ledger.ListAll(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("check demo orders: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	now := time.Now()
	for _, order := range demoOrders(ownerID, now) {
		// Draw from the shared counter so later checkouts can never
		// collide with a seeded number.
		number, err := s.ledger.NextOrderNumber(ctx)
		if err != nil {
			return fmt.Errorf("seed demo order number: %w", err)
		}
		order.OrderNumber = number
		if err := s.ledger.Append(ctx, &order); err != nil {
			return fmt.Errorf("seed demo order %s: %w", order.OrderNumber, err)
		}
	}
	return nil
}

func demoOrders(ownerID string, now time.Time) []domain.Order {
	customer := domain.CustomerInfo{
		Name:          DemoName,
		Email:         DemoEmail,
		Phone:         "+51 999 111 222",
		Address:       "Av. Los Talleres 450, Lima",
		PaymentMethod: domain.PaymentMethodCard,
	}

	return []domain.Order{
		{
			ID:      "ord-demo-0001",
			OwnerID: ownerID,
			Items: []domain.OrderItem{
				{
					ProductID: "f1",
					Name:      "Nordica Lounge Chair",
					Image:     "/images/products/nordica-chair.jpg",
					Category:  "furniture",
					Price:     decimal.NewFromInt(450),
					Quantity:  1,
				},
				{
					ProductID: "l2",
					Name:      "Arco Floor Lamp",
					Image:     "/images/products/arco-lamp.jpg",
					Category:  "lighting",
					Price:     decimal.NewFromInt(180),
					Quantity:  2,
				},
			},
			TotalPrice: decimal.NewFromInt(810),
			Customer:   customer,
			Date:       now.AddDate(0, 0, -30),
			Status:     domain.OrderStatusCompleted,
		},
		{
			ID:      "ord-demo-0002",
			OwnerID: ownerID,
			Items: []domain.OrderItem{
				{
					ProductID: "t3",
					Name:      "Atelier Oak Side Table",
					Image:     "/images/products/oak-side-table.jpg",
					Category:  "furniture",
					Price:     decimal.NewFromInt(320),
					Quantity:  1,
				},
			},
			TotalPrice: decimal.NewFromInt(320),
			Customer:   customer,
			Date:       now.AddDate(0, 0, -2),
			Status:     domain.OrderStatusPending,
		},
	}
}
