package email

import (
	"context"
	"fmt"

	"github.com/Karpenko88/carbooking/internal/kafka"
)

type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.ReservationEvent) error {
	fmt.Printf("send email to %s about %s for car %d (%s - %s)\n",
		event.Email, event.Type, event.CarID,
		event.StartDate.Format("2006-01-02"), event.EndDate.Format("2006-01-02"))
	return nil
}
