package cgt

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// AccountConfig declares one CGT-tracked account.
type AccountConfig struct {
	// Name is the ledger account-path prefix, without the Assets: root
	// (e.g., "Lalit:UK:AJ-Bell:GIA").
	Name string `yaml:"name"`
	// Taxable marks the account as a taxable GIA. Unset means taxable.
	Taxable *bool `yaml:"taxable"`
}

// Config lists the accounts the CGT pass tracks.
type Config struct {
	Accounts []AccountConfig `yaml:"accounts"`
}

// ParseConfig parses a YAML configuration blob into a validated Config.
//
//	accounts:
//	  - name: Lalit:UK:AJ-Bell:GIA
//	    taxable: true
//	  - name: Lalit:UK:AJ-Bell:ISA
//	    taxable: false
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid CGT configuration: %w", err)
	}
	for i, a := range cfg.Accounts {
		if a.Name == "" {
			return Config{}, fmt.Errorf("CGT account %d has no name", i)
		}
	}
	return cfg, nil
}

// Account is the resolved descriptor for one CGT-tracked account.
type Account struct {
	// Name is the account-path prefix used to recognize postings.
	Name string
	// Taxable accounts accrue GBP taxable gains; exempt accounts (ISA,
	// SIPP) only keep their books consistent.
	Taxable bool
	// Section104Suffix distinguishes pooling scope: all taxable accounts
	// share the "Taxable" pool per symbol, each exempt account pools alone.
	Section104Suffix string
}

// resolve expands the configuration into account descriptors. A duplicate
// account registration is a configuration error: it is reported as a
// diagnostic and no descriptors are returned, so the caller can fix the
// configuration and rerun.
func (c Config) resolve() ([]*Account, []string) {
	var diags []string
	seen := make(map[string]bool, len(c.Accounts))
	accounts := make([]*Account, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		if seen[a.Name] {
			diags = append(diags, fmt.Sprintf("duplicate CGT account registration for %q", a.Name))
			continue
		}
		seen[a.Name] = true

		taxable := a.Taxable == nil || *a.Taxable
		suffix := "Taxable"
		if !taxable {
			suffix = strings.ReplaceAll(a.Name, ":", "-")
		}
		accounts = append(accounts, &Account{
			Name:             a.Name,
			Taxable:          taxable,
			Section104Suffix: suffix,
		})
	}
	if len(diags) > 0 {
		return nil, diags
	}
	return accounts, nil
}
