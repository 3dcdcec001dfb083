package domain

// GroupAmounts holds one value per 50/30/20 bucket.
type GroupAmounts struct {
	Essentials  float64 `json:"essenciais"`
	Lifestyle   float64 `json:"estilo_vida"`
	Investments float64 `json:"investimentos"`
}

// Budget is the stored month record: what was planned per bucket and what
// actually happened. Month uses the "2006-01" key format.
type Budget struct {
	OwnerID   string       `json:"-"`
	Month     string       `json:"mes"`
	Projected GroupAmounts `json:"projetado"`
	Realized  GroupAmounts `json:"realizado"`
}
