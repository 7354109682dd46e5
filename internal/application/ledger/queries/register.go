package queries

import (
	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
	"github.com/andrescamacho/supplychain-go/internal/domain/ledger"
)

// RegisterHandlers wires the ledger queries into the mediator
func RegisterHandlers(m mediator.Mediator, repo ledger.TransactionRepository) error {
	if err := mediator.RegisterHandler[*GetTransactionsQuery](m, NewGetTransactionsHandler(repo)); err != nil {
		return err
	}
	if err := mediator.RegisterHandler[*GetProfitLossQuery](m, NewGetProfitLossHandler(repo)); err != nil {
		return err
	}
	return mediator.RegisterHandler[*GetCashFlowQuery](m, NewGetCashFlowHandler(repo))
}
