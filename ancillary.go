package beancount

import (
	"fmt"
	"strings"
)

// Metadata keys on an open directive that trigger ancillary account creation.
// The value is the currency the companion account is opened with.
const (
	ancillaryCommissionKey     = "ancillary_commission_currency"
	ancillaryDistributionKey   = "ancillary_distribution_currency"
	ancillaryCapitalGainsKey   = "ancillary_capital_gains_currency"
	ancillaryWithholdingTaxKey = "ancillary_withholding_tax_currency"
)

// accountParent returns the account path with its leaf removed.
func accountParent(account string) string {
	if i := strings.LastIndex(account, ":"); i >= 0 {
		return account[:i]
	}
	return ""
}

// accountLeaf returns the last segment of an account path.
func accountLeaf(account string) string {
	if i := strings.LastIndex(account, ":"); i >= 0 {
		return account[i+1:]
	}
	return account
}

// accountSansRoot returns the account path with its root (Assets, Revenues,
// Expenses, ...) removed.
func accountSansRoot(account string) string {
	if i := strings.Index(account, ":"); i >= 0 {
		return account[i+1:]
	}
	return ""
}

// AncillaryAccounts auto-creates companion accounts for investment securities.
//
// When an open directive carries metadata like
// `ancillary_commission_currency: USD`, companion open directives are
// synthesized for commission expenses, distribution income, capital gains and
// withholding tax, dated the same as the main open. When the main account
// closes, the companions are closed too.
//
// It returns the augmented directive list and a list of configuration
// diagnostics. A duplicate open directive is a configuration error: the pass
// stops and returns no output alongside the diagnostic. A distribution
// request for a symbol with no commodity declaration is missing lookup data
// and fails with an error.
func AncillaryAccounts(l *Ledger) ([]Directive, []string, error) {
	companions := make(map[string][]string) // main account -> companion accounts
	var diags []string
	var out []Directive

	for _, entry := range l.directives {
		out = append(out, entry)

		switch v := entry.(type) {
		case Open:
			if _, dup := companions[v.Account]; dup {
				diags = append(diags, "duplicate open directive for "+v.Account)
				return nil, diags, nil
			}

			base := accountParent(accountSansRoot(v.Account))
			symbol := accountLeaf(v.Account)
			oracle := NewAccountOracle(base, l)

			var opened []string
			add := func(key string, account string) {
				currency := v.Meta[key]
				if currency == "" {
					return
				}
				out = append(out, Open{
					Date:       v.Date,
					Account:    account,
					Currencies: []string{currency},
				})
				opened = append(opened, account)
			}

			add(ancillaryCommissionKey, oracle.CommissionAccount(symbol))
			if v.Meta[ancillaryDistributionKey] != "" {
				dist, err := oracle.DistributionAccount(symbol)
				if err != nil {
					return nil, nil, fmt.Errorf("open of %s on %s: %w", v.Account, v.Date, err)
				}
				add(ancillaryDistributionKey, dist)
			}
			add(ancillaryCapitalGainsKey, oracle.CapitalGainsAccount(symbol))
			add(ancillaryWithholdingTaxKey, oracle.WithholdingTaxAccount(symbol))

			companions[v.Account] = opened

		case Close:
			opened := companions[v.Account]
			if len(opened) == 0 {
				continue
			}
			for _, account := range opened {
				out = append(out, Close{Date: v.Date, Account: account, Meta: v.Meta})
			}
			delete(companions, v.Account)
		}
	}
	return out, diags, nil
}
