package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReconcileQuotesCommandIsNotConstructed = errors.New(
	"ReconcileQuotesCommand must be created via NewReconcileQuotesCommand constructor",
)

// ReconcileQuotesCommand settles Pending delivery orders whose courier quote was
// recorded more than olderThan ago without a confirmed outcome.
type ReconcileQuotesCommand struct {
	olderThan time.Duration

	guard guard.ConstructorGuard
}

func NewReconcileQuotesCommand(olderThan time.Duration) (ReconcileQuotesCommand, error) {
	if olderThan <= 0 {
		return ReconcileQuotesCommand{}, errs.NewValueIsInvalidErrorWithCause("older than",
			fmt.Errorf("%s is not positive", olderThan))
	}
	return ReconcileQuotesCommand{olderThan: olderThan, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcileQuotesCommand) Validate() error {
	return c.guard.Validate(ErrReconcileQuotesCommandIsNotConstructed)
}

func (c ReconcileQuotesCommand) OlderThan() time.Duration {
	return c.olderThan
}
