package domain

// CategoryKind mirrors the transaction kinds a category can classify.
type CategoryKind string

const (
	CategoryIncome     CategoryKind = "income"
	CategoryExpense    CategoryKind = "expense"
	CategoryInvestment CategoryKind = "investment"
)

// Group is one of the three fixed 50/30/20 spending buckets.
type Group string

const (
	GroupEssential  Group = "essential"
	GroupLifestyle  Group = "lifestyle"
	GroupInvestment Group = "investment"
)

// DefaultGroup is where uncategorized spending lands. Lifestyle by policy:
// money without a declared purpose is discretionary.
const DefaultGroup = GroupLifestyle

// Category labels transactions and assigns them to a budget group.
type Category struct {
	ID      string       `json:"id"`
	OwnerID string       `json:"-"`
	Name    string       `json:"nome"`
	Kind    CategoryKind `json:"tipo"`
	Group   Group        `json:"grupo"`
	Color   string       `json:"cor,omitempty"`
	Icon    string       `json:"icone,omitempty"`

	// MonthlyLimit is an optional per-category ceiling, nil when unset.
	MonthlyLimit *float64 `json:"limite_mensal,omitempty"`
}

// GroupOf resolves a category ID to its budget group using the owner's
// category set. Unknown or empty IDs land in DefaultGroup.
func GroupOf(categoryID string, categories []Category) Group {
	if categoryID == "" {
		return DefaultGroup
	}
	for _, c := range categories {
		if c.ID == categoryID {
			return c.Group
		}
	}
	return DefaultGroup
}
