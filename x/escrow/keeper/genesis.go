package keeper

import (
	"context"
	"fmt"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// InitGenesis initializes the escrow module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, data types.GenesisState) error {
	for _, entry := range data.Escrows {
		if err := k.CreateEscrow(ctx, entry.ID, entry.Escrow); err != nil {
			return fmt.Errorf("failed to initialize escrow %s: %w", entry.ID, err)
		}
	}
	return nil
}

// ExportGenesis returns the escrow module's exported genesis
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	escrows, err := k.GetAllEscrows(ctx)
	if err != nil {
		return nil, err
	}
	return &types.GenesisState{Escrows: escrows}, nil
}
