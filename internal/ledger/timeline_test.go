package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luissince/architect-portfolio-sub000/internal/domain"
)

func TestDeriveStatus_ByAge(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		age  time.Duration
		want domain.OrderStatus
	}{
		{"fresh order stays pending", 2 * time.Hour, domain.OrderStatusPending},
		{"day-old order is processing", 30 * time.Hour, domain.OrderStatusProcessing},
		{"week-old order is completed", 8 * 24 * time.Hour, domain.OrderStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &domain.Order{Date: now.Add(-tt.age), Status: domain.OrderStatusPending}
			assert.Equal(t, tt.want, DeriveStatus(order, now))
		})
	}
}

func TestDeriveStatus_TerminalStatusSticks(t *testing.T) {
	now := time.Now()

	cancelled := &domain.Order{Date: now.Add(-10 * 24 * time.Hour), Status: domain.OrderStatusCancelled}
	assert.Equal(t, domain.OrderStatusCancelled, DeriveStatus(cancelled, now))

	completed := &domain.Order{Date: now.Add(-time.Hour), Status: domain.OrderStatusCompleted}
	assert.Equal(t, domain.OrderStatusCompleted, DeriveStatus(completed, now))
}

func TestTimeline_MilestoneOffsets(t *testing.T) {
	date := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	order := &domain.Order{Date: date, Status: domain.OrderStatusPending}

	milestones := Timeline(order, date)
	require.Len(t, milestones, 4)

	assert.Equal(t, date, milestones[0].At)
	assert.Equal(t, date.Add(24*time.Hour), milestones[1].At)
	assert.Equal(t, date.Add(3*24*time.Hour), milestones[2].At)
	assert.Equal(t, date.Add(7*24*time.Hour), milestones[3].At)
}

func TestTimeline_PendingOrderOnlyReceived(t *testing.T) {
	now := time.Now()
	order := &domain.Order{Date: now.Add(-time.Hour), Status: domain.OrderStatusPending}

	milestones := Timeline(order, now)
	assert.True(t, milestones[0].Reached)
	for _, m := range milestones[1:] {
		assert.False(t, m.Reached, m.Label)
	}
}

func TestTimeline_ProcessingOrderReachesElapsedMilestones(t *testing.T) {
	now := time.Now()
	order := &domain.Order{Date: now.Add(-4 * 24 * time.Hour), Status: domain.OrderStatusPending}

	milestones := Timeline(order, now)
	assert.True(t, milestones[0].Reached)
	assert.True(t, milestones[1].Reached)
	assert.True(t, milestones[2].Reached)
	assert.False(t, milestones[3].Reached)
}

func TestTimeline_CancelledOrderShowsOnlyReceived(t *testing.T) {
	now := time.Now()
	order := &domain.Order{Date: now.Add(-10 * 24 * time.Hour), Status: domain.OrderStatusCancelled}

	milestones := Timeline(order, now)
	assert.True(t, milestones[0].Reached)
	for _, m := range milestones[1:] {
		assert.False(t, m.Reached, m.Label)
	}
}

func TestTimeline_CompletedOrderReachesAll(t *testing.T) {
	now := time.Now()
	order := &domain.Order{Date: now.Add(-8 * 24 * time.Hour), Status: domain.OrderStatusPending}

	for _, m := range Timeline(order, now) {
		assert.True(t, m.Reached, m.Label)
	}
}
