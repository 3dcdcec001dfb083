package domain

// Profile is the owning user's account data. AllocationTargets maps an asset
// class to the desired share of the portfolio, in percent.
type Profile struct {
	ID                string                     `json:"id"`
	Email             string                     `json:"email"`
	Name              string                     `json:"nome"`
	Household         string                     `json:"familia,omitempty"`
	MonthlyIncome     float64                    `json:"renda_mensal"`
	AllocationTargets map[InvestmentType]float64 `json:"alvos_alocacao,omitempty"`
}

// ProfilePatch is a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	Name          *string
	MonthlyIncome *float64
}

// Empty reports whether the patch would change nothing.
func (p ProfilePatch) Empty() bool {
	return p.Name == nil && p.MonthlyIncome == nil
}
