package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/Dimont/diogoboilerplate/testutil/sample"
	"github.com/Dimont/diogoboilerplate/x/escrow/keeper"
	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

var (
	arbiter  = sample.NamedAddress("arbiter")
	recd     = sample.NamedAddress("recd")
	source   = sample.NamedAddress("source")
	stranger = sample.NamedAddress("stranger")
	fooToken = sample.NamedAddress("foo_token")
	barToken = sample.NamedAddress("bar_token")
	bazToken = sample.NamedAddress("baz_token")
)

func ptr[T any](v T) *T { return &v }

func coin(amount int64, denom string) sdk.Coin {
	return sdk.NewInt64Coin(denom, amount)
}

// newCreateMsg describes an escrow arbitrated by arbiter, paying out to recd.
func newCreateMsg(id string, whitelist ...string) types.CreateMsg {
	return types.CreateMsg{
		ID:            id,
		Arbiter:       arbiter,
		Recipient:     ptr(recd),
		Title:         "some_title",
		Description:   "some_description",
		Cw20Whitelist: whitelist,
	}
}

func receiveMsg(t testing.TB, token, depositor string, amount int64, instruction types.ReceiveMsg) *types.MsgReceive {
	t.Helper()
	bz, err := instruction.Encode()
	require.NoError(t, err)
	return types.NewMsgReceive(token, depositor, math.NewInt(amount), bz)
}

func topUpReceive(t testing.TB, token string, amount int64, id string) *types.MsgReceive {
	return receiveMsg(t, token, source, amount, types.ReceiveMsg{TopUp: &types.IDMsg{ID: id}})
}

// mustCreate creates an escrow through the handler and fails the test on error.
func mustCreate(t testing.TB, handler keeper.Handler, ctx sdk.Context, create types.CreateMsg, funds ...sdk.Coin) {
	t.Helper()
	_, err := handler(ctx, types.NewMsgCreateEscrow(source, create, funds...))
	require.NoError(t, err)
}

func escrowEvents(ctx sdk.Context) []sdk.Event {
	var out []sdk.Event
	for _, event := range ctx.EventManager().Events() {
		if event.Type == types.EventTypeEscrow {
			out = append(out, event)
		}
	}
	return out
}

func attribute(event sdk.Event, key string) string {
	for _, attr := range event.Attributes {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}
