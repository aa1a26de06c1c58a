package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	keepertest "github.com/Dimont/diogoboilerplate/testutil/keeper"
	"github.com/Dimont/diogoboilerplate/x/escrow/keeper"
	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

func TestHappyPathNativeAndTokens(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	create := newCreateMsg("foobar", barToken, fooToken)
	create.EndHeight = ptr(uint64(123456))
	res, err := handler(ctx, types.NewMsgCreateEscrow(source, create, coin(100, "fee"), coin(200, "stake")))
	require.NoError(t, err)
	require.Empty(t, res.Messages)

	_, err = handler(ctx, types.NewMsgTopUp(source, "foobar", coin(250, "random"), coin(300, "stake")))
	require.NoError(t, err)

	_, err = handler(ctx, topUpReceive(t, barToken, 7890, "foobar"))
	require.NoError(t, err)

	_, err = handler(ctx, topUpReceive(t, bazToken, 7890, "foobar"))
	require.ErrorIs(t, err, types.ErrNotInWhitelist)

	_, err = handler(ctx, topUpReceive(t, fooToken, 888, "foobar"))
	require.NoError(t, err)

	res, err = handler(ctx, types.NewMsgApprove(arbiter, "foobar"))
	require.NoError(t, err)
	require.Len(t, res.Messages, 3)

	require.Equal(t, types.NewBankSendMsg(recd, []sdk.Coin{
		coin(100, "fee"),
		coin(500, "stake"),
		coin(250, "random"),
	}), res.Messages[0])

	barTransfer, err := types.NewCw20TransferMsg(barToken, recd, math.NewInt(7890))
	require.NoError(t, err)
	require.Equal(t, barTransfer, res.Messages[1])

	fooTransfer, err := types.NewCw20TransferMsg(fooToken, recd, math.NewInt(888))
	require.NoError(t, err)
	require.Equal(t, fooTransfer, res.Messages[2])

	_, err = k.GetEscrow(ctx, "foobar")
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestCreateEscrow(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	create := newCreateMsg("foobar")
	create.EndTime = ptr(uint64(keepertest.GenesisTime.Unix() + 3600))
	mustCreate(t, handler, ctx, create, coin(1200, "stake"))

	escrow, err := k.GetEscrow(ctx, "foobar")
	require.NoError(t, err)
	require.Equal(t, arbiter, escrow.Arbiter)
	require.Equal(t, recd, *escrow.Recipient)
	require.Equal(t, source, escrow.Source)
	require.Equal(t, "some_title", escrow.Title)
	require.Equal(t, "some_description", escrow.Description)
	require.Nil(t, escrow.EndHeight)
	require.Equal(t, *create.EndTime, *escrow.EndTime)
	require.Equal(t, []sdk.Coin{coin(1200, "stake")}, escrow.Balance.Native)
	require.Empty(t, escrow.Balance.Cw20)
	require.Empty(t, escrow.Cw20Whitelist)

	events := escrowEvents(ctx)
	require.Len(t, events, 1)
	require.Equal(t, types.ActionCreateEscrow, attribute(events[0], types.AttributeKeyAction))
	require.Equal(t, "foobar", attribute(events[0], types.AttributeKeyID))
}

func TestCreateEscrow_Errors(t *testing.T) {
	tests := []struct {
		name    string
		create  types.CreateMsg
		funds   []sdk.Coin
		wantErr error
	}{
		{"no funds", newCreateMsg("foobar"), nil, types.ErrEmptyBalance},
		{"zero funds", newCreateMsg("foobar"), []sdk.Coin{coin(0, "stake")}, types.ErrEmptyBalance},
		{"id too short", newCreateMsg("fo"), []sdk.Coin{coin(1, "stake")}, types.ErrInvalidMsg},
		{"bad arbiter", types.CreateMsg{ID: "foobar", Arbiter: "arbiter"}, []sdk.Coin{coin(1, "stake")}, types.ErrInvalidAddress},
		{"bad whitelist", newCreateMsg("foobar", "bar_token"), []sdk.Coin{coin(1, "stake")}, types.ErrInvalidAddress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, ctx := keepertest.EscrowKeeper(t)
			handler := keeper.NewHandler(k)

			_, err := handler(ctx, types.NewMsgCreateEscrow(source, tt.create, tt.funds...))
			require.ErrorIs(t, err, tt.wantErr)

			ids, err := k.ListEscrowIDs(ctx)
			require.NoError(t, err)
			require.Empty(t, ids)
			require.Empty(t, escrowEvents(ctx))
		})
	}
}

func TestCreateEscrow_AlreadyInUse(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	mustCreate(t, handler, ctx, newCreateMsg("foobar"), coin(100, "stake"))

	other := newCreateMsg("foobar")
	other.Arbiter = stranger
	_, err := handler(ctx, types.NewMsgCreateEscrow(stranger, other, coin(5, "fee")))
	require.ErrorIs(t, err, types.ErrAlreadyInUse)

	escrow, err := k.GetEscrow(ctx, "foobar")
	require.NoError(t, err)
	require.Equal(t, arbiter, escrow.Arbiter)
	require.Equal(t, []sdk.Coin{coin(100, "stake")}, escrow.Balance.Native)
}

func TestCreateEscrow_DropsInvalidRecipient(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	create := newCreateMsg("foobar")
	create.Recipient = ptr("not-an-address")
	mustCreate(t, handler, ctx, create, coin(100, "stake"))

	escrow, err := k.GetEscrow(ctx, "foobar")
	require.NoError(t, err)
	require.Nil(t, escrow.Recipient)
}

func TestSetRecipient(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	create := newCreateMsg("foobar")
	create.Recipient = nil
	mustCreate(t, handler, ctx, create, coin(100, "stake"))

	_, err := handler(ctx, types.NewMsgApprove(arbiter, "foobar"))
	require.ErrorIs(t, err, types.ErrRecipientNotSet)

	_, err = handler(ctx, types.NewMsgSetRecipient(stranger, "foobar", stranger))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	_, err = handler(ctx, types.NewMsgSetRecipient(arbiter, "foobar", "nobody"))
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	_, err = handler(ctx, types.NewMsgSetRecipient(arbiter, "nothere", recd))
	require.ErrorIs(t, err, types.ErrNotFound)

	res, err := handler(ctx, types.NewMsgSetRecipient(arbiter, "foobar", recd))
	require.NoError(t, err)
	require.Empty(t, res.Messages)

	escrow, err := k.GetEscrow(ctx, "foobar")
	require.NoError(t, err)
	require.Equal(t, recd, *escrow.Recipient)

	res, err = handler(ctx, types.NewMsgApprove(arbiter, "foobar"))
	require.NoError(t, err)
	require.Equal(t, []types.TransferMsg{types.NewBankSendMsg(recd, []sdk.Coin{coin(100, "stake")})}, res.Messages)
}

func TestApprove_Errors(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	create := newCreateMsg("foobar")
	create.EndHeight = ptr(uint64(keepertest.GenesisHeight + 10))
	mustCreate(t, handler, ctx, create, coin(100, "stake"))

	_, err := handler(ctx, types.NewMsgApprove(arbiter, "nothere"))
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = handler(ctx, types.NewMsgApprove(recd, "foobar"))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	// Reaching the end height exactly is not expiry.
	atEnd := ctx.WithBlockHeight(keepertest.GenesisHeight + 10)
	_, err = handler(atEnd.WithBlockHeight(keepertest.GenesisHeight+11), types.NewMsgApprove(arbiter, "foobar"))
	require.ErrorIs(t, err, types.ErrExpired)

	res, err := handler(atEnd, types.NewMsgApprove(arbiter, "foobar"))
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)

	_, err = handler(atEnd, types.NewMsgApprove(arbiter, "foobar"))
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestApprove_ExpiredByTime(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	end := keepertest.GenesisTime.Unix() + 60
	create := newCreateMsg("foobar")
	create.EndTime = ptr(uint64(end))
	mustCreate(t, handler, ctx, create, coin(100, "stake"))

	late := ctx.WithBlockTime(keepertest.GenesisTime.Add(61 * time.Second))
	_, err := handler(late, types.NewMsgApprove(arbiter, "foobar"))
	require.ErrorIs(t, err, types.ErrExpired)
	require.True(t, k.HasEscrow(ctx, "foobar"))
}

func TestApprove_Events(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)
	mustCreate(t, handler, ctx, newCreateMsg("foobar"), coin(100, "stake"))

	ctx = ctx.WithEventManager(sdk.NewEventManager())
	_, err := handler(ctx, types.NewMsgApprove(arbiter, "foobar"))
	require.NoError(t, err)

	events := escrowEvents(ctx)
	require.Len(t, events, 1)
	require.Equal(t, types.ActionApprove, attribute(events[0], types.AttributeKeyAction))
	require.Equal(t, recd, attribute(events[0], types.AttributeKeyTo))
	require.Equal(t, "100stake", attribute(events[0], types.AttributeKeyAmount))
}

func TestRefund(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	create := newCreateMsg("foobar", fooToken)
	create.EndHeight = ptr(uint64(keepertest.GenesisHeight + 10))
	mustCreate(t, handler, ctx, create, coin(100, "stake"))
	_, err := handler(ctx, topUpReceive(t, fooToken, 55, "foobar"))
	require.NoError(t, err)

	_, err = handler(ctx, types.NewMsgRefund(stranger, "foobar"))
	require.ErrorIs(t, err, types.ErrUnauthorized)
	require.True(t, k.HasEscrow(ctx, "foobar"))

	res, err := handler(ctx, types.NewMsgRefund(arbiter, "foobar"))
	require.NoError(t, err)

	fooTransfer, err := types.NewCw20TransferMsg(fooToken, source, math.NewInt(55))
	require.NoError(t, err)
	require.Equal(t, []types.TransferMsg{
		types.NewBankSendMsg(source, []sdk.Coin{coin(100, "stake")}),
		fooTransfer,
	}, res.Messages)
	require.False(t, k.HasEscrow(ctx, "foobar"))

	_, err = handler(ctx, types.NewMsgRefund(arbiter, "foobar"))
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestRefund_AnyoneAfterExpiry(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	create := newCreateMsg("foobar")
	create.EndHeight = ptr(uint64(keepertest.GenesisHeight + 10))
	mustCreate(t, handler, ctx, create, coin(100, "stake"))

	_, err := handler(ctx.WithBlockHeight(keepertest.GenesisHeight+10), types.NewMsgRefund(stranger, "foobar"))
	require.ErrorIs(t, err, types.ErrUnauthorized)

	res, err := handler(ctx.WithBlockHeight(keepertest.GenesisHeight+11), types.NewMsgRefund(stranger, "foobar"))
	require.NoError(t, err)
	require.Equal(t, []types.TransferMsg{types.NewBankSendMsg(source, []sdk.Coin{coin(100, "stake")})}, res.Messages)
}

func TestTopUp_Errors(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)
	mustCreate(t, handler, ctx, newCreateMsg("foobar"), coin(100, "stake"))

	_, err := handler(ctx, types.NewMsgTopUp(source, "nothere", coin(1, "stake")))
	require.ErrorIs(t, err, types.ErrNotFound)

	// Emptiness is checked before the escrow is loaded.
	_, err = handler(ctx, types.NewMsgTopUp(source, "nothere"))
	require.ErrorIs(t, err, types.ErrEmptyBalance)

	_, err = handler(ctx, types.NewMsgTopUp(source, "foobar", coin(0, "stake")))
	require.ErrorIs(t, err, types.ErrEmptyBalance)

	_, err = handler(ctx, topUpReceive(t, fooToken, 0, "foobar"))
	require.ErrorIs(t, err, types.ErrEmptyBalance)

	escrow, err := k.GetEscrow(ctx, "foobar")
	require.NoError(t, err)
	require.Equal(t, []sdk.Coin{coin(100, "stake")}, escrow.Balance.Native)
}

func TestTopUp_AnyoneMayFund(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)
	mustCreate(t, handler, ctx, newCreateMsg("foobar"), coin(100, "stake"))

	_, err := handler(ctx, types.NewMsgTopUp(stranger, "foobar", coin(7, "stake"), coin(3, "fee")))
	require.NoError(t, err)

	escrow, err := k.GetEscrow(ctx, "foobar")
	require.NoError(t, err)
	require.Equal(t, source, escrow.Source)
	require.Equal(t, []sdk.Coin{coin(107, "stake"), coin(3, "fee")}, escrow.Balance.Native)
}

func TestReceive_CreateEscrow(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	create := newCreateMsg("foobar", barToken)
	_, err := handler(ctx, receiveMsg(t, fooToken, source, 100, types.ReceiveMsg{CreateEscrow: &create}))
	require.NoError(t, err)

	escrow, err := k.GetEscrow(ctx, "foobar")
	require.NoError(t, err)
	require.Equal(t, source, escrow.Source)
	require.Empty(t, escrow.Balance.Native)
	require.Equal(t, []types.Cw20Coin{{Address: fooToken, Amount: math.NewInt(100)}}, escrow.Balance.Cw20)
	require.Equal(t, []string{barToken, fooToken}, escrow.Cw20Whitelist)

	// Already whitelisted tokens are not repeated.
	again := newCreateMsg("second", fooToken)
	_, err = handler(ctx, receiveMsg(t, fooToken, source, 5, types.ReceiveMsg{CreateEscrow: &again}))
	require.NoError(t, err)
	escrow, err = k.GetEscrow(ctx, "second")
	require.NoError(t, err)
	require.Equal(t, []string{fooToken}, escrow.Cw20Whitelist)

	res, err := handler(ctx, types.NewMsgApprove(arbiter, "foobar"))
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	require.NotNil(t, res.Messages[0].Wasm)
	require.Equal(t, fooToken, res.Messages[0].Wasm.ContractAddr)
}

func TestReceive_Errors(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)
	mustCreate(t, handler, ctx, newCreateMsg("foobar", fooToken), coin(100, "stake"))

	_, err := handler(ctx, types.NewMsgReceive(fooToken, source, math.NewInt(5), []byte(`{"approve":{"id":"foobar"}}`)))
	require.ErrorIs(t, err, types.ErrInvalidMsg)

	_, err = handler(ctx, types.NewMsgReceive(fooToken, source, math.NewInt(5), []byte(`not json`)))
	require.ErrorIs(t, err, types.ErrInvalidMsg)

	_, err = handler(ctx, topUpReceive(t, fooToken, 5, "nothere"))
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = handler(ctx, topUpReceive(t, "foo_token", 5, "foobar"))
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	create := newCreateMsg("foobar")
	_, err = handler(ctx, receiveMsg(t, fooToken, source, 5, types.ReceiveMsg{CreateEscrow: &create}))
	require.ErrorIs(t, err, types.ErrAlreadyInUse)

	escrow, err := k.GetEscrow(ctx, "foobar")
	require.NoError(t, err)
	require.Empty(t, escrow.Balance.Cw20)
}

type failingExecutor struct{ calls int }

func (e *failingExecutor) Execute(sdk.Context, []types.TransferMsg) error {
	e.calls++
	return types.ErrTransferFailed.Wrap("executor offline")
}

func TestHandler_FailedSettlementLeavesNoTrace(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)
	mustCreate(t, handler, ctx, newCreateMsg("foobar"), coin(100, "stake"))

	executor := &failingExecutor{}
	k.SetTransferExecutor(executor)

	ctx = ctx.WithEventManager(sdk.NewEventManager())
	_, err := handler(ctx, types.NewMsgApprove(arbiter, "foobar"))
	require.ErrorIs(t, err, types.ErrTransferFailed)
	require.Equal(t, 1, executor.calls)

	_, err = handler(ctx, types.NewMsgRefund(arbiter, "foobar"))
	require.ErrorIs(t, err, types.ErrTransferFailed)
	require.Equal(t, 2, executor.calls)

	require.True(t, k.HasEscrow(ctx, "foobar"))
	require.Empty(t, escrowEvents(ctx))
}

func TestHandler_RejectsInvalidMessageBeforeState(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)

	_, err := handler(ctx, types.NewMsgApprove("", "foobar"))
	require.ErrorIs(t, err, types.ErrInvalidAddress)

	_, err = handler(ctx, types.NewMsgRefund(arbiter, ""))
	require.ErrorIs(t, err, types.ErrInvalidMsg)
}

func TestCreate_ZeroAmountCoinsAreDropped(t *testing.T) {
	k, ctx := keepertest.EscrowKeeper(t)
	handler := keeper.NewHandler(k)
	mustCreate(t, handler, ctx, newCreateMsg("foobar"), coin(0, "fee"), coin(5, "stake"))

	_, err := handler(ctx, types.NewMsgTopUp(source, "foobar", coin(0, "random"), coin(1, "stake")))
	require.NoError(t, err)

	details, err := keeper.NewQueryServerImpl(*k).Details(ctx, &types.QueryDetailsRequest{ID: "foobar"})
	require.NoError(t, err)
	require.Equal(t, "6stake", sdk.Coins(details.NativeBalance).String())

	res, err := handler(ctx, types.NewMsgApprove(arbiter, "foobar"))
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	require.Equal(t, recd, res.Messages[0].Bank.ToAddress)
	require.Equal(t, "6stake", sdk.Coins(res.Messages[0].Bank.Amount).String())
	require.NoError(t, sdk.Coins(res.Messages[0].Bank.Amount).Validate())
}
