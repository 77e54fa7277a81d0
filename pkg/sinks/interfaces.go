package sinks

import "context"

// Sink sends dispatch outcomes to a downstream destination (webhook, SQS, etc).
type Sink interface {
	ID() string
	Type() string
	Publish(ctx context.Context, o Outcome) error
}
