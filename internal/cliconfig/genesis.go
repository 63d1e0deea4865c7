package cliconfig

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/ans/pkg/ans"
)

// GenesisFile is the TOML layout of a genesis file:
//
//	reservation_fee = 10
//	reservation_account = "treasury"
//
//	[[balances]]
//	account = "alice"
//	amount = 100
type GenesisFile struct {
	ReservationFee     uint64           `toml:"reservation_fee"`
	ReservationAccount string           `toml:"reservation_account"`
	Balances           []GenesisBalance `toml:"balances"`
}

// GenesisBalance is one initial balance entry.
type GenesisBalance struct {
	Account string `toml:"account"`
	Amount  uint64 `toml:"amount"`
}

// LoadGenesisFile reads and parses a TOML genesis file.
func LoadGenesisFile(path string) (GenesisFile, error) {
	var gf GenesisFile
	b, err := os.ReadFile(path)
	if err != nil {
		return gf, err
	}
	if err := toml.Unmarshal(b, &gf); err != nil {
		return gf, fmt.Errorf("parse %s: %w", path, err)
	}
	return gf, nil
}

// GenesisConfig converts the file into the registry's genesis settings.
// An empty reservation_account leaves the account unset.
func (g GenesisFile) GenesisConfig() (ans.GenesisConfig, error) {
	out := ans.GenesisConfig{
		ReservationFee: ans.Balance(g.ReservationFee),
		Balances:       make(map[ans.AccountID]ans.Balance, len(g.Balances)),
	}
	if g.ReservationAccount != "" {
		acct := ans.AccountID(g.ReservationAccount)
		out.ReservationAccount = &acct
	}

	for i, b := range g.Balances {
		if b.Account == "" {
			return ans.GenesisConfig{}, fmt.Errorf("balances[%d]: account is required", i)
		}
		who := ans.AccountID(b.Account)
		if _, dup := out.Balances[who]; dup {
			return ans.GenesisConfig{}, fmt.Errorf("balances[%d]: duplicate account %q", i, b.Account)
		}
		out.Balances[who] = ans.Balance(b.Amount)
	}
	return out, nil
}
