package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// RegisterInvariants registers all escrow module invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "escrow-balance",
		EscrowBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "escrow-whitelist",
		EscrowWhitelistInvariant(k))
}

// AllInvariants runs all invariants of the escrow module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := EscrowBalanceInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return EscrowWhitelistInvariant(k)(ctx)
	}
}

// EscrowBalanceInvariant checks that every live escrow holds a non-empty balance with
// non-negative amounts and at most one line item per denomination or token.
func EscrowBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
			count  int
		)

		err := k.IterateEscrows(ctx, func(id string, escrow types.Escrow) bool {
			if escrow.Balance.IsEmpty() {
				broken = true
				msg += fmt.Sprintf("\tescrow %s has an empty balance\n", id)
				count++
				return false
			}
			if err := escrow.Balance.Validate(); err != nil {
				broken = true
				msg += fmt.Sprintf("\tescrow %s: %v\n", id, err)
				count++
			}
			return false
		})
		if err != nil {
			broken = true
			msg += fmt.Sprintf("\tfailed to iterate escrows: %v\n", err)
		}

		return sdk.FormatInvariant(
			types.ModuleName, "escrow-balance",
			fmt.Sprintf("found %d escrows with invalid balances\n%s", count, msg),
		), broken
	}
}

// EscrowWhitelistInvariant checks that every token line item is on its escrow's whitelist.
func EscrowWhitelistInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			broken bool
			msg    string
			count  int
		)

		err := k.IterateEscrows(ctx, func(id string, escrow types.Escrow) bool {
			for _, token := range escrow.Balance.Cw20 {
				if !escrow.IsWhitelisted(token.Address) {
					broken = true
					msg += fmt.Sprintf("\tescrow %s holds non-whitelisted token %s\n", id, token.Address)
					count++
				}
			}
			return false
		})
		if err != nil {
			broken = true
			msg += fmt.Sprintf("\tfailed to iterate escrows: %v\n", err)
		}

		return sdk.FormatInvariant(
			types.ModuleName, "escrow-whitelist",
			fmt.Sprintf("found %d non-whitelisted token line items\n%s", count, msg),
		), broken
	}
}
