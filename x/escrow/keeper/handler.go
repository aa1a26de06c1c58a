package keeper

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	"github.com/hashicorp/go-metrics"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// Handler processes one inbound escrow message against the store carried by ctx.
type Handler func(ctx sdk.Context, msg types.Msg) (*types.MsgResponse, error)

// NewHandler returns a Handler routing every escrow message to the msg server. Each
// message runs on a cached branch of the store that is written back only when the
// message succeeds, so a failed message leaves no state or events behind.
func NewHandler(k *Keeper) Handler {
	msgServer := NewMsgServerImpl(k)

	return func(ctx sdk.Context, msg types.Msg) (*types.MsgResponse, error) {
		if err := msg.ValidateBasic(); err != nil {
			k.recordFailure(msg, err)
			return nil, err
		}

		cacheCtx, writeCache := ctx.CacheContext()
		res, err := dispatch(cacheCtx, msgServer, msg)
		if err != nil {
			k.recordFailure(msg, err)
			k.Logger(ctx).Debug("escrow message failed", "type", msg.Type(), "err", err)
			return nil, err
		}
		writeCache()

		telemetry.IncrCounterWithLabels(
			[]string{types.ModuleName, "msg", "success"},
			1,
			[]metrics.Label{telemetry.NewLabel("type", msg.Type())},
		)
		return res, nil
	}
}

func dispatch(ctx sdk.Context, srv types.MsgServer, msg types.Msg) (*types.MsgResponse, error) {
	switch msg := msg.(type) {
	case *types.MsgCreateEscrow:
		return srv.CreateEscrow(ctx, msg)
	case *types.MsgSetRecipient:
		return srv.SetRecipient(ctx, msg)
	case *types.MsgApprove:
		return srv.Approve(ctx, msg)
	case *types.MsgRefund:
		return srv.Refund(ctx, msg)
	case *types.MsgTopUp:
		return srv.TopUp(ctx, msg)
	case *types.MsgReceive:
		return srv.Receive(ctx, msg)
	default:
		return nil, errorsmod.Wrapf(sdkerrors.ErrUnknownRequest, "unrecognized %s message type: %T", types.ModuleName, msg)
	}
}

func (k Keeper) recordFailure(msg types.Msg, err error) {
	codespace, code, _ := errorsmod.ABCIInfo(err, false)
	k.metrics.Failures.WithLabelValues(msg.Type(), codespace, codeLabel(code)).Inc()

	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "msg", "failure"},
		1,
		[]metrics.Label{
			telemetry.NewLabel("type", msg.Type()),
			telemetry.NewLabel("codespace", codespace),
		},
	)
}
