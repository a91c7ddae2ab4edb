package port

import "context"

// EventInsufficientBalanceForGas is emitted once per preparation call that
// exhausts every candidate fee currency.
const EventInsufficientBalanceForGas = "insufficient_balance_for_gas"

// PreparationEvent is a diagnostic signal for the analytics collector.
// Origin is a caller-supplied free-text tag identifying the initiating flow
// (e.g. "send", "swap", "earn-deposit").
type PreparationEvent struct {
	Name      string `json:"event"`
	Origin    string `json:"origin"`
	NetworkID string `json:"networkId"`
}

// AnalyticsSink accepts preparation events. Implementations must not block
// preparation on delivery failures.
type AnalyticsSink interface {
	Track(ctx context.Context, event PreparationEvent)
}
