package banking

import (
	"github.com/shopspring/decimal"
)

// Account is a linked bank account as shown on the dashboard
type Account struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	OfficialName     string          `json:"official_name,omitempty"`
	Mask             string          `json:"mask,omitempty"`
	Type             string          `json:"type,omitempty"`
	Subtype          string          `json:"subtype,omitempty"`
	InstitutionID    string          `json:"institution_id,omitempty"`
	CurrentBalance   decimal.Decimal `json:"current_balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
}

// BalanceSummary aggregates balances across accounts
type BalanceSummary struct {
	Accounts            []Account       `json:"accounts"`
	TotalBanks          int             `json:"total_banks"`
	TotalCurrentBalance decimal.Decimal `json:"total_current_balance"`
}

// Summarize totals the current balance of every account. Accounts
// sharing an institution count as a single bank.
func Summarize(accounts []Account) BalanceSummary {
	total := decimal.Zero
	banks := map[string]struct{}{}

	for _, acc := range accounts {
		total = total.Add(acc.CurrentBalance)
		key := acc.InstitutionID
		if key == "" {
			key = acc.ID
		}
		banks[key] = struct{}{}
	}

	out := make([]Account, len(accounts))
	copy(out, accounts)

	return BalanceSummary{
		Accounts:            out,
		TotalBanks:          len(banks),
		TotalCurrentBalance: total,
	}
}

// FormatAmount renders a balance with two decimals
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// PlaceholderSummary is shown on the dashboard until account data is
// fetched from the provider.
func PlaceholderSummary() BalanceSummary {
	return BalanceSummary{
		Accounts:            PlaceholderAccounts(),
		TotalBanks:          1,
		TotalCurrentBalance: decimal.RequireFromString("1250.35"),
	}
}

// PlaceholderAccounts are the sidebar bank cards shown before linking
func PlaceholderAccounts() []Account {
	return []Account{
		{
			ID:             "placeholder-1",
			Name:           "Horizon Checking",
			CurrentBalance: decimal.RequireFromString("123.50"),
		},
		{
			ID:             "placeholder-2",
			Name:           "Horizon Savings",
			CurrentBalance: decimal.RequireFromString("500.50"),
		},
	}
}
