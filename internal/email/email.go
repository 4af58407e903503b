package email

import (
	"context"
	"fmt"

	"github.com/dkuznetsov91/busbooking/internal/kafka"
)

// Sender is a stub; real delivery is owned by an external provider.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	switch event.Type {
	case "cancellation_approved":
		fmt.Printf("notify %s: booking %s cancelled, refund %s (%d%%)\n",
			event.Email, event.PNR, event.RefundAmount, event.RefundPercent)
	default:
		fmt.Printf("notify %s: %s for booking %s\n", event.Email, event.Type, event.PNR)
	}
	return nil
}
