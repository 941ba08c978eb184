package ledger

import (
	"time"

	"github.com/luissince/architect-portfolio-sub000/internal/domain"
)

// Fixed offsets from the order date for the display timeline.
const (
	processingAfter = 24 * time.Hour
	inTransitAfter  = 3 * 24 * time.Hour
	deliveredAfter  = 7 * 24 * time.Hour
)

type Milestone struct {
	Label   string    `json:"label"`
	At      time.Time `json:"at"`
	Reached bool      `json:"reached"`
}

// DeriveStatus projects an order's display status from its age.
// Cancelled and completed orders keep their stored status; everything
// else is promoted by elapsed time. The stored order is never mutated.
func DeriveStatus(order *domain.Order, now time.Time) domain.OrderStatus {
	if order.Status.IsTerminal() {
		return order.Status
	}
	age := now.Sub(order.Date)
	switch {
	case age >= deliveredAfter:
		return domain.OrderStatusCompleted
	case age >= processingAfter:
		return domain.OrderStatusProcessing
	default:
		return domain.OrderStatusPending
	}
}

// Timeline projects the order onto its four display milestones. Later
// milestones are only reachable once the derived status has left
// pending; a cancelled order shows only the received milestone.
func Timeline(order *domain.Order, now time.Time) []Milestone {
	status := DeriveStatus(order, now)

	milestones := []Milestone{
		{Label: "received", At: order.Date, Reached: true},
		{Label: "processing", At: order.Date.Add(processingAfter)},
		{Label: "in transit", At: order.Date.Add(inTransitAfter)},
		{Label: "delivered", At: order.Date.Add(deliveredAfter)},
	}

	if status != domain.OrderStatusProcessing && status != domain.OrderStatusCompleted {
		return milestones
	}
	for i := 1; i < len(milestones); i++ {
		milestones[i].Reached = !now.Before(milestones[i].At)
	}
	return milestones
}
