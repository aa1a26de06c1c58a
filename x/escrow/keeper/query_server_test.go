package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/Dimont/diogoboilerplate/testutil/keeper"
	"github.com/Dimont/diogoboilerplate/x/escrow/keeper"
	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

func TestQueryServer_List(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)
	qs := keeper.NewQueryServerImpl(*k)

	res, err := qs.List(ctx, &types.QueryListRequest{})
	require.NoError(t, err)
	require.Equal(t, []string{}, res.Escrows)

	mustCreate(t, handler, ctx, newCreateMsg("foobar"), coin(1, "stake"))
	mustCreate(t, handler, ctx, newCreateMsg("barfoo"), coin(1, "stake"))

	res, err = qs.List(ctx, &types.QueryListRequest{})
	require.NoError(t, err)
	require.Equal(t, []string{"barfoo", "foobar"}, res.Escrows)
}

func TestQueryServer_Details(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)
	qs := keeper.NewQueryServerImpl(*k)

	create := newCreateMsg("foobar", barToken)
	create.EndHeight = ptr(uint64(123456))
	mustCreate(t, handler, ctx, create, coin(100, "fee"))
	_, err := handler(ctx, topUpReceive(t, barToken, 42, "foobar"))
	require.NoError(t, err)

	res, err := qs.Details(ctx, &types.QueryDetailsRequest{ID: "foobar"})
	require.NoError(t, err)
	require.Equal(t, &types.QueryDetailsResponse{
		ID:            "foobar",
		Arbiter:       arbiter,
		Recipient:     ptr(recd),
		Source:        source,
		Title:         "some_title",
		Description:   "some_description",
		EndHeight:     ptr(uint64(123456)),
		NativeBalance: []sdk.Coin{coin(100, "fee")},
		Cw20Balance:   []types.Cw20Coin{{Address: barToken, Amount: math.NewInt(42)}},
		Cw20Whitelist: []string{barToken},
	}, res)

	_, err = qs.Details(ctx, &types.QueryDetailsRequest{ID: "nothere"})
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = qs.Details(ctx, nil)
	require.ErrorIs(t, err, types.ErrInvalidMsg)
}
