package keeper

import (
	"context"
	"encoding/json"

	"cosmossdk.io/store/prefix"
	storetypes "cosmossdk.io/store/types"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// CreateEscrow stores a new escrow. It never overwrites: an id that is live fails with
// ErrAlreadyInUse.
func (k Keeper) CreateEscrow(ctx context.Context, id string, escrow types.Escrow) error {
	store := k.getStore(ctx)
	if store.Has(types.EscrowKey(id)) {
		return types.ErrAlreadyInUse.Wrapf("escrow %s", id)
	}
	return k.SetEscrow(ctx, id, escrow)
}

// GetEscrow loads an escrow by id.
func (k Keeper) GetEscrow(ctx context.Context, id string) (types.Escrow, error) {
	store := k.getStore(ctx)
	bz := store.Get(types.EscrowKey(id))
	if bz == nil {
		return types.Escrow{}, types.ErrNotFound.Wrapf("escrow %s", id)
	}
	return unmarshalEscrow(id, bz)
}

// HasEscrow reports whether id is live.
func (k Keeper) HasEscrow(ctx context.Context, id string) bool {
	return k.getStore(ctx).Has(types.EscrowKey(id))
}

// SetEscrow overwrites the escrow stored under id.
func (k Keeper) SetEscrow(ctx context.Context, id string, escrow types.Escrow) error {
	bz, err := json.Marshal(escrow)
	if err != nil {
		return types.ErrCorrupt.Wrapf("marshal escrow %s: %v", id, err)
	}
	k.getStore(ctx).Set(types.EscrowKey(id), bz)
	return nil
}

// RemoveEscrow deletes an escrow. Removing an absent id is a no-op.
func (k Keeper) RemoveEscrow(ctx context.Context, id string) {
	k.getStore(ctx).Delete(types.EscrowKey(id))
}

// ListEscrowIDs returns every live id in ascending byte order. Each call reads a fresh
// iterator.
func (k Keeper) ListEscrowIDs(ctx context.Context) ([]string, error) {
	ids := []string{}
	err := k.iterate(ctx, func(id string, _ []byte) (bool, error) {
		ids = append(ids, id)
		return false, nil
	})
	return ids, err
}

// IterateEscrows calls cb for every escrow in ascending id order until cb returns true.
func (k Keeper) IterateEscrows(ctx context.Context, cb func(id string, escrow types.Escrow) (stop bool)) error {
	return k.iterate(ctx, func(id string, bz []byte) (bool, error) {
		escrow, err := unmarshalEscrow(id, bz)
		if err != nil {
			return true, err
		}
		return cb(id, escrow), nil
	})
}

// GetAllEscrows returns every escrow paired with its id.
func (k Keeper) GetAllEscrows(ctx context.Context) ([]types.EscrowEntry, error) {
	entries := []types.EscrowEntry{}
	err := k.IterateEscrows(ctx, func(id string, escrow types.Escrow) bool {
		entries = append(entries, types.EscrowEntry{ID: id, Escrow: escrow})
		return false
	})
	return entries, err
}

func (k Keeper) iterate(ctx context.Context, cb func(id string, bz []byte) (bool, error)) error {
	store := prefix.NewStore(k.getStore(ctx), types.EscrowKeyPrefix)
	iterator := storetypes.KVStorePrefixIterator(store, nil)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		stop, err := cb(string(iterator.Key()), iterator.Value())
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

func unmarshalEscrow(id string, bz []byte) (types.Escrow, error) {
	var escrow types.Escrow
	if err := json.Unmarshal(bz, &escrow); err != nil {
		return types.Escrow{}, types.ErrCorrupt.Wrapf("unmarshal escrow %s: %v", id, err)
	}
	return escrow, nil
}
