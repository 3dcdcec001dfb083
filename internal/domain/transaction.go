package domain

import (
	"time"
)

// TransactionKind classifies how a transaction affects the owner's money.
type TransactionKind string

const (
	KindIncome     TransactionKind = "income"
	KindExpense    TransactionKind = "expense"
	KindTransfer   TransactionKind = "transfer"
	KindInvestment TransactionKind = "investment"
)

// Transaction is one money movement recorded by a family member.
// Amount is a non-negative magnitude; Kind carries the direction.
type Transaction struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"-"`
	Description string          `json:"descricao"`
	Amount      float64         `json:"valor"`
	Kind        TransactionKind `json:"tipo"`
	Date        time.Time       `json:"data"`

	// Optional links. Empty means unlinked.
	CategoryID string `json:"categoria_id,omitempty"`
	AccountID  string `json:"conta_id,omitempty"`

	// Member is the family member the movement is attributed to.
	Member string   `json:"membro,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Notes  string   `json:"observacoes,omitempty"`

	// Installment metadata, e.g. 3/12 for the third of twelve charges.
	InstallmentNum int  `json:"parcela_num,omitempty"`
	InstallmentOf  int  `json:"parcela_de,omitempty"`
	Recurring      bool `json:"recorrente,omitempty"`
}
