package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/core/address"
	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// Keeper of the escrow store
type Keeper struct {
	storeKey     storetypes.StoreKey
	addressCodec address.Codec

	// executor runs transfer instructions in-process when set. Without it the
	// instructions are only returned to the host.
	executor TransferExecutor

	metrics *EscrowMetrics
}

type kvStoreProvider interface {
	KVStore(key storetypes.StoreKey) storetypes.KVStore
}

// NewKeeper creates a new escrow Keeper instance
func NewKeeper(key storetypes.StoreKey, addressCodec address.Codec) *Keeper {
	return &Keeper{
		storeKey:     key,
		addressCodec: addressCodec,
		metrics:      NewEscrowMetrics(),
	}
}

// SetTransferExecutor installs an executor for approve and refund instructions.
func (k *Keeper) SetTransferExecutor(executor TransferExecutor) {
	k.executor = executor
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// AddressCodec returns the codec used to validate identities.
func (k Keeper) AddressCodec() address.Codec {
	return k.addressCodec
}

// getStore returns the KVStore for the escrow module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	if provider, ok := ctx.(kvStoreProvider); ok {
		return provider.KVStore(k.storeKey)
	}

	unwrapped := sdk.UnwrapSDKContext(ctx)
	return unwrapped.KVStore(k.storeKey)
}

// ValidateAddress checks a raw identity and returns its canonical form.
func (k Keeper) ValidateAddress(raw string) (string, error) {
	bz, err := k.addressCodec.StringToBytes(raw)
	if err != nil {
		return "", types.ErrInvalidAddress.Wrapf("%q: %v", raw, err)
	}
	canonical, err := k.addressCodec.BytesToString(bz)
	if err != nil {
		return "", types.ErrInvalidAddress.Wrapf("%q: %v", raw, err)
	}
	return canonical, nil
}

// SetLastHeight records the height of the block being committed. The host writes it on
// every commit so the store keeps a version even after the last escrow is removed.
func (k Keeper) SetLastHeight(ctx context.Context, height int64) {
	k.getStore(ctx).Set(types.LastHeightKey, sdk.Uint64ToBigEndian(uint64(height)))
}

// GetLastHeight returns the last recorded height, or zero if none was written.
func (k Keeper) GetLastHeight(ctx context.Context) int64 {
	bz := k.getStore(ctx).Get(types.LastHeightKey)
	if bz == nil {
		return 0
	}
	return int64(sdk.BigEndianToUint64(bz))
}
