package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType identifies the kind of account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountCreditCard AccountType = "credit-card"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

// Account is a place money lives. The stored record carries only the opening
// balance; the current balance is always derived from transactions.
type Account struct {
	ID             string      `json:"id"`
	OwnerID        string      `json:"-"`
	Name           string      `json:"nome"`
	Type           AccountType `json:"tipo"`
	OpeningBalance float64     `json:"saldo_inicial"`
	Active         bool        `json:"ativa"`
}

// Balance derives the current cash balance from the account's transactions:
// opening balance + income − expense.
//
// Transfer-kind transactions are excluded: the app records one transaction per
// transfer leg, and a single leg only nets out against its pair on the other
// account, so counting legs here would skew a balance whenever the pair is
// missing. Investment-kind transactions count as outflows (cash leaves the
// account to fund a position; the position itself lives on Investment).
//
// Sums run over decimals so long histories do not accumulate float error.
func (a Account) Balance(txs []Transaction) float64 {
	total := decimal.NewFromFloat(a.OpeningBalance)
	for _, t := range txs {
		if t.AccountID != a.ID {
			continue
		}
		amt := decimal.NewFromFloat(t.Amount)
		switch t.Kind {
		case KindIncome:
			total = total.Add(amt)
		case KindExpense, KindInvestment:
			total = total.Sub(amt)
		case KindTransfer:
			// excluded, see above
		}
	}
	f, _ := total.Float64()
	return f
}
