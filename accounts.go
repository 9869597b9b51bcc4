package beancount

import (
	"fmt"
)

// AccountOracle generates account names consistently for a given brokerage
// account. The base account path (e.g., "Lalit:UK:AJ-Bell:GIA") is expanded
// under the Assets, Revenues and Expenses roots; per-symbol distribution
// account names use the distribution type declared on the symbol's commodity
// directive.
type AccountOracle struct {
	assetsAccount    string
	revenuesAccount  string
	expensesAccount  string
	distributionType map[string]string
}

// NewAccountOracle builds an oracle for the given base account, reading
// commodity distribution types from the ledger.
func NewAccountOracle(account string, l *Ledger) *AccountOracle {
	o := &AccountOracle{
		assetsAccount:    "Assets:" + account,
		revenuesAccount:  "Revenues:" + account,
		expensesAccount:  "Expenses:" + account,
		distributionType: make(map[string]string),
	}
	for c := range l.Commodities() {
		dist := c.Meta["distribution_type"]
		if dist == "" {
			dist = "Dividends"
		}
		o.distributionType[c.Symbol] = dist
	}
	return o
}

// CashAccount returns the account holding the brokerage's settled cash.
func (o *AccountOracle) CashAccount() string { return o.assetsAccount + ":Cash" }

// AssetAccount returns the account holding units of the given symbol.
func (o *AccountOracle) AssetAccount(symbol string) string {
	return o.assetsAccount + ":" + symbol
}

// DistributionAccount returns the income account for a symbol's
// distributions. The symbol must have a commodity declaration in the ledger.
func (o *AccountOracle) DistributionAccount(symbol string) (string, error) {
	dist, ok := o.distributionType[symbol]
	if !ok {
		return "", fmt.Errorf("no commodity declaration for symbol %q: cannot derive distribution account", symbol)
	}
	return o.revenuesAccount + ":" + symbol + ":" + dist, nil
}

// CapitalGainsAccount returns the income account for a symbol's realized gains.
func (o *AccountOracle) CapitalGainsAccount(symbol string) string {
	return o.revenuesAccount + ":" + symbol + ":Capital-Gains"
}

// InterestAccount returns the income account for cash interest.
func (o *AccountOracle) InterestAccount() string {
	return o.revenuesAccount + ":Cash:Interest"
}

// FeesAccount returns the expense account for account-level fees.
func (o *AccountOracle) FeesAccount() string {
	return o.expensesAccount + ":Cash:Fees"
}

// WithholdingTaxAccount returns the expense account for taxes withheld on a
// symbol's distributions.
func (o *AccountOracle) WithholdingTaxAccount(symbol string) string {
	return o.expensesAccount + ":" + symbol + ":Withholding-Tax"
}

// CommissionAccount returns the expense account for a symbol's trade commissions.
func (o *AccountOracle) CommissionAccount(symbol string) string {
	return o.expensesAccount + ":" + symbol + ":Commissions"
}
