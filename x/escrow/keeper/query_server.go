package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

var _ types.QueryServer = queryServer{}

type queryServer struct {
	Keeper
}

// NewQueryServerImpl returns an implementation of the QueryServer interface
// for the provided Keeper.
func NewQueryServerImpl(k Keeper) types.QueryServer {
	return queryServer{Keeper: k}
}

// List returns every live escrow id in ascending order.
func (qs queryServer) List(goCtx context.Context, _ *types.QueryListRequest) (*types.QueryListResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	ids, err := qs.ListEscrowIDs(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryListResponse{Escrows: ids}, nil
}

// Details returns one escrow.
func (qs queryServer) Details(goCtx context.Context, req *types.QueryDetailsRequest) (*types.QueryDetailsResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidMsg.Wrap("empty request")
	}
	ctx := sdk.UnwrapSDKContext(goCtx)

	escrow, err := qs.GetEscrow(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	native := make([]sdk.Coin, len(escrow.Balance.Native))
	copy(native, escrow.Balance.Native)
	cw20 := make([]types.Cw20Coin, len(escrow.Balance.Cw20))
	copy(cw20, escrow.Balance.Cw20)

	return &types.QueryDetailsResponse{
		ID:            req.ID,
		Arbiter:       escrow.Arbiter,
		Recipient:     escrow.Recipient,
		Source:        escrow.Source,
		Title:         escrow.Title,
		Description:   escrow.Description,
		EndHeight:     escrow.EndHeight,
		EndTime:       escrow.EndTime,
		NativeBalance: native,
		Cw20Balance:   cw20,
		Cw20Whitelist: escrow.HumanWhitelist(),
	}, nil
}
