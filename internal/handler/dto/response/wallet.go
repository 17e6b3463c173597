package response

import "stoodioz/internal/usecase/queries"

type WalletTransactionsResponse struct {
	BalanceCents int64                      `json:"balance_cents"`
	Transactions []*queries.TransactionView `json:"transactions"`
}
