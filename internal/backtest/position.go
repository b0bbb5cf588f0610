package backtest

import (
	"time"

	"github.com/google/uuid"
)

// PositionStatus is the lifecycle state of a simulated position.
type PositionStatus string

const (
	// StatusPendingOpen is the transient state between signal acceptance
	// check and premium debit.
	StatusPendingOpen PositionStatus = "PENDING_OPEN"
	StatusOpen        PositionStatus = "OPEN"
	StatusSettled     PositionStatus = "SETTLED"
	StatusRejected    PositionStatus = "REJECTED"
)

// Position is one capped-payoff option position. Created when a signal
// passes the constraint check, mutated only at settlement, archived into
// the trade history at expiry.
type Position struct {
	ID         string
	Status     PositionStatus
	EntryTime  time.Time
	ExpiryTime time.Time

	InstrumentType string
	IsCall         bool
	Strength       int
	RuleTriggered  string

	EntryPrice   float64
	Notional     float64
	PremiumPaid  float64
	ProfitCapPct float64
}

func newPositionID() string {
	// short id, enough to correlate log lines with the trade history
	return uuid.NewString()[:8]
}

// Settlement is the outcome of settling a position at expiry.
type Settlement struct {
	PriceMovePct  float64
	CappedMovePct float64
	Payout        float64
	NetPnL        float64
}

// SettleAt computes the settlement economics at the given exit price. The
// favorable move is clamped to [0, cap], so the payout is never negative
// and the loss is bounded at exactly the premium paid.
func (p *Position) SettleAt(exitPrice float64) Settlement {
	var movePct float64
	if p.IsCall {
		movePct = (exitPrice - p.EntryPrice) / p.EntryPrice * 100
	} else {
		movePct = (p.EntryPrice - exitPrice) / p.EntryPrice * 100
	}

	capped := movePct
	if capped < 0 {
		capped = 0
	}
	if capped > p.ProfitCapPct {
		capped = p.ProfitCapPct
	}

	payout := p.Notional * capped / 100
	return Settlement{
		PriceMovePct:  movePct,
		CappedMovePct: capped,
		Payout:        payout,
		NetPnL:        payout - p.PremiumPaid,
	}
}
