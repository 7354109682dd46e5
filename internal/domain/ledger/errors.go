package ledger

import "fmt"

// ErrInvalidTransaction reports a posting that cannot be journaled
type ErrInvalidTransaction struct {
	Field  string
	Reason string
}

func (e *ErrInvalidTransaction) Error() string {
	return fmt.Sprintf("invalid transaction %s: %s", e.Field, e.Reason)
}

// ErrBalanceInvariantViolation reports a posting whose balances do not add up
type ErrBalanceInvariantViolation struct {
	BalanceBefore float64
	Amount        float64
	BalanceAfter  float64
	Expected      float64
}

func (e *ErrBalanceInvariantViolation) Error() string {
	return fmt.Sprintf("balance %.4f %+.4f should be %.4f, got %.4f",
		e.BalanceBefore, e.Amount, e.Expected, e.BalanceAfter)
}

// ErrTransactionNotFound reports an unknown transaction ID within a run
type ErrTransactionNotFound struct {
	ID    string
	RunID string
}

func (e *ErrTransactionNotFound) Error() string {
	return fmt.Sprintf("transaction %s not found in run %s", e.ID, e.RunID)
}
