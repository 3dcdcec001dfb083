package domain

import "time"

// InvestmentType is the asset class of a holding.
type InvestmentType string

const (
	InvestStocks     InvestmentType = "stocks"
	InvestBonds      InvestmentType = "bonds"
	InvestCrypto     InvestmentType = "crypto"
	InvestRealEstate InvestmentType = "real-estate"
	InvestFunds      InvestmentType = "funds"
	InvestOther      InvestmentType = "other"
)

// Investment is a single holding with its purchase and current prices.
type Investment struct {
	ID            string         `json:"id"`
	OwnerID       string         `json:"-"`
	Name          string         `json:"nome"`
	Type          InvestmentType `json:"tipo"`
	Institution   string         `json:"instituicao,omitempty"`
	PurchasePrice float64        `json:"valor_compra"`
	CurrentPrice  float64        `json:"valor_atual"`
	PurchaseDate  time.Time      `json:"data_compra"`
	MaturityDate  *time.Time     `json:"data_vencimento,omitempty"`
}

// Profitability is the signed gain over the purchase price, in percent.
// Zero purchase price yields 0 rather than a division error.
func (i Investment) Profitability() float64 {
	if i.PurchasePrice <= 0 {
		return 0
	}
	return (i.CurrentPrice - i.PurchasePrice) / i.PurchasePrice * 100
}
