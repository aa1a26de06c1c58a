package types

import (
	"fmt"

	"cosmossdk.io/core/address"
)

// EscrowEntry pairs an escrow with its id for import and export.
type EscrowEntry struct {
	ID     string `json:"id"`
	Escrow Escrow `json:"escrow"`
}

// GenesisState is the escrow module state at genesis.
type GenesisState struct {
	Escrows []EscrowEntry `json:"escrows"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Escrows: []EscrowEntry{},
	}
}

// Validate performs basic genesis state validation returning an error upon any
// failure. Identities are checked against ac.
func (gs GenesisState) Validate(ac address.Codec) error {
	seen := make(map[string]bool, len(gs.Escrows))
	for i, entry := range gs.Escrows {
		if !IsValidEscrowID(entry.ID) {
			return fmt.Errorf("escrow %d: invalid id %q", i, entry.ID)
		}
		if seen[entry.ID] {
			return fmt.Errorf("escrow %d: duplicate id %q", i, entry.ID)
		}
		seen[entry.ID] = true

		if err := entry.Escrow.Validate(ac); err != nil {
			return fmt.Errorf("escrow %d (id=%s): %w", i, entry.ID, err)
		}
	}
	return nil
}
