package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Publisher delivers ledger events to downstream consumers. Publishing happens
// after the database commit; a delivery failure never unwinds a committed
// transfer.
type Publisher interface {
	Publish(topic string, event any) error
}

const TopicTransferCompleted = "transfer_completed"

// TransferCompleted is emitted once per committed transfer pair. Reference
// correlates the event with the audit log; it is not persisted in the ledger.
type TransferCompleted struct {
	Reference   string          `json:"reference"`
	FromAccount int64           `json:"from_account"`
	ToAccount   int64           `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Payee       string          `json:"payee"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// NoopPublisher drops every event. Used when no broker is configured and in
// tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(topic string, event any) error { return nil }
