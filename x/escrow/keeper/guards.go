package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// RequireArbiter fails with ErrUnauthorized unless caller is the escrow's arbiter.
func RequireArbiter(escrow types.Escrow, caller string) error {
	if caller != escrow.Arbiter {
		return types.ErrUnauthorized.Wrapf("%s is not the arbiter", caller)
	}
	return nil
}

// RequireRefundable fails with ErrUnauthorized unless caller is the arbiter or the
// escrow has expired, in which case anyone may trigger the refund.
func RequireRefundable(escrow types.Escrow, caller string, expired bool) error {
	if expired {
		return nil
	}
	if err := RequireArbiter(escrow, caller); err != nil {
		return types.ErrUnauthorized.Wrapf("%s is not the arbiter and the escrow has not expired", caller)
	}
	return nil
}

// IsExpired evaluates the escrow's bounds against the current block.
func IsExpired(ctx sdk.Context, escrow types.Escrow) bool {
	height := ctx.BlockHeight()
	if height < 0 {
		height = 0
	}
	return escrow.IsExpired(uint64(height), ctx.BlockTime())
}
