package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/topmart/Investment-Engine-Backend/internal/repository"
)

// Clock supplies the current time. Services take it injected so tests can
// drive lifecycle and sweep behavior deterministically.
type Clock func() time.Time

// CreditingGateway is the boundary to the account/balance store. Credit
// must be an atomic increment; it runs against q so sweeps can fold it into
// the same transaction as the investment write. Callers are responsible for
// invoking it at most once per logical credit event.
type CreditingGateway interface {
	Credit(ctx context.Context, q repository.Querier, userID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// Notifier delivers fire-and-forget user messages. Implementations must not
// block lifecycle transitions and must swallow (log) their own failures.
type Notifier interface {
	Notify(ctx context.Context, userID, subject, body string)
}
