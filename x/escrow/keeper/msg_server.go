package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

type msgServer struct {
	*Keeper
}

// NewMsgServerImpl returns an implementation of the MsgServer interface
// for the provided Keeper.
func NewMsgServerImpl(keeper *Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// CreateEscrow creates an escrow funded by the native coins sent with the message.
func (ms msgServer) CreateEscrow(goCtx context.Context, msg *types.MsgCreateEscrow) (*types.MsgResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	source, err := ms.ValidateAddress(msg.Sender)
	if err != nil {
		return nil, err
	}
	if err := ms.createEscrow(ctx, msg.Escrow, types.NewNativeBalance(msg.Funds...), source); err != nil {
		return nil, err
	}
	return &types.MsgResponse{Messages: []types.TransferMsg{}}, nil
}

// SetRecipient assigns the recipient. Only the arbiter may do so.
func (ms msgServer) SetRecipient(goCtx context.Context, msg *types.MsgSetRecipient) (*types.MsgResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	escrow, err := ms.GetEscrow(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	if err := RequireArbiter(escrow, ms.canonicalOrRaw(msg.Sender)); err != nil {
		return nil, err
	}

	recipient, err := ms.ValidateAddress(msg.Recipient)
	if err != nil {
		return nil, err
	}
	escrow.Recipient = &recipient
	if err := ms.SetEscrow(ctx, msg.ID, escrow); err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrow,
			sdk.NewAttribute(types.AttributeKeyAction, types.ActionSetRecipient),
			sdk.NewAttribute(types.AttributeKeyID, msg.ID),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient),
		),
	)
	ms.Logger(ctx).Debug("escrow recipient set", "id", msg.ID, "recipient", recipient)

	return &types.MsgResponse{Messages: []types.TransferMsg{}}, nil
}

// Approve deletes the escrow and pays its whole balance to the recipient.
func (ms msgServer) Approve(goCtx context.Context, msg *types.MsgApprove) (*types.MsgResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	escrow, err := ms.GetEscrow(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	if err := RequireArbiter(escrow, ms.canonicalOrRaw(msg.Sender)); err != nil {
		return nil, err
	}
	if IsExpired(ctx, escrow) {
		return nil, types.ErrExpired.Wrapf("escrow %s", msg.ID)
	}
	if !escrow.HasRecipient() {
		return nil, types.ErrRecipientNotSet.Wrapf("escrow %s", msg.ID)
	}
	recipient := *escrow.Recipient

	ms.RemoveEscrow(ctx, msg.ID)

	msgs, err := ms.settle(ctx, recipient, escrow.Balance)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrow,
			sdk.NewAttribute(types.AttributeKeyAction, types.ActionApprove),
			sdk.NewAttribute(types.AttributeKeyID, msg.ID),
			sdk.NewAttribute(types.AttributeKeyTo, recipient),
			sdk.NewAttribute(types.AttributeKeyAmount, escrow.Balance.String()),
		),
	)
	ms.Logger(ctx).Info("escrow approved", "id", msg.ID, "to", recipient, "transfers", len(msgs))
	ms.metrics.Approved.Inc()

	return &types.MsgResponse{Messages: msgs}, nil
}

// Refund deletes the escrow and returns its whole balance to the source. The arbiter may
// refund at any time; once the escrow has expired anyone may.
func (ms msgServer) Refund(goCtx context.Context, msg *types.MsgRefund) (*types.MsgResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	escrow, err := ms.GetEscrow(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	if err := RequireRefundable(escrow, ms.canonicalOrRaw(msg.Sender), IsExpired(ctx, escrow)); err != nil {
		return nil, err
	}

	ms.RemoveEscrow(ctx, msg.ID)

	msgs, err := ms.settle(ctx, escrow.Source, escrow.Balance)
	if err != nil {
		return nil, err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrow,
			sdk.NewAttribute(types.AttributeKeyAction, types.ActionRefund),
			sdk.NewAttribute(types.AttributeKeyID, msg.ID),
			sdk.NewAttribute(types.AttributeKeyTo, escrow.Source),
			sdk.NewAttribute(types.AttributeKeyAmount, escrow.Balance.String()),
		),
	)
	ms.Logger(ctx).Info("escrow refunded", "id", msg.ID, "to", escrow.Source, "transfers", len(msgs))
	ms.metrics.Refunded.Inc()

	return &types.MsgResponse{Messages: msgs}, nil
}

// TopUp adds the native coins sent with the message to the escrow.
func (ms msgServer) TopUp(goCtx context.Context, msg *types.MsgTopUp) (*types.MsgResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	if err := ms.topUp(ctx, msg.ID, types.NewNativeBalance(msg.Funds...)); err != nil {
		return nil, err
	}
	return &types.MsgResponse{Messages: []types.TransferMsg{}}, nil
}

// Receive handles a token notification. The sending token contract is the deposited
// asset; the embedded instruction selects create or top-up.
func (ms msgServer) Receive(goCtx context.Context, msg *types.MsgReceive) (*types.MsgResponse, error) {
	ctx := sdk.UnwrapSDKContext(goCtx)

	receive, err := types.DecodeReceiveMsg(msg.Receive.Msg)
	if err != nil {
		return nil, err
	}

	token, err := ms.ValidateAddress(msg.Sender)
	if err != nil {
		return nil, err
	}
	deposit := types.NewCw20Balance(token, msg.Receive.Amount)

	switch {
	case receive.CreateEscrow != nil:
		depositor, err := ms.ValidateAddress(msg.Receive.Sender)
		if err != nil {
			return nil, err
		}
		err = ms.createEscrow(ctx, *receive.CreateEscrow, deposit, depositor)
		if err != nil {
			return nil, err
		}
	case receive.TopUp != nil:
		if err := ms.topUp(ctx, receive.TopUp.ID, deposit); err != nil {
			return nil, err
		}
	}
	return &types.MsgResponse{Messages: []types.TransferMsg{}}, nil
}

func (k Keeper) createEscrow(ctx sdk.Context, msg types.CreateMsg, deposit types.Balance, source string) error {
	if err := msg.ValidateBasic(); err != nil {
		return err
	}
	if deposit.IsEmpty() {
		return types.ErrEmptyBalance
	}

	whitelist := make([]string, 0, len(msg.Cw20Whitelist)+1)
	for _, raw := range msg.Cw20Whitelist {
		token, err := k.ValidateAddress(raw)
		if err != nil {
			return err
		}
		whitelist = append(whitelist, token)
	}

	var balance types.GenericBalance
	if deposit.IsCw20() {
		found := false
		for _, t := range whitelist {
			if t == deposit.Cw20.Address {
				found = true
				break
			}
		}
		if !found {
			whitelist = append(whitelist, deposit.Cw20.Address)
		}
	}
	if err := balance.Add(deposit); err != nil {
		return err
	}

	var recipient *string
	if msg.Recipient != nil {
		if r, err := k.ValidateAddress(*msg.Recipient); err == nil {
			recipient = &r
		} else {
			k.Logger(ctx).Debug("dropping invalid recipient", "id", msg.ID, "err", err)
		}
	}

	arbiter, err := k.ValidateAddress(msg.Arbiter)
	if err != nil {
		return err
	}

	escrow := types.Escrow{
		Arbiter:       arbiter,
		Recipient:     recipient,
		Source:        source,
		Title:         msg.Title,
		Description:   msg.Description,
		EndHeight:     msg.EndHeight,
		EndTime:       msg.EndTime,
		Balance:       balance,
		Cw20Whitelist: whitelist,
	}
	if err := k.CreateEscrow(ctx, msg.ID, escrow); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeEscrow,
			sdk.NewAttribute(types.AttributeKeyAction, types.ActionCreateEscrow),
			sdk.NewAttribute(types.AttributeKeyID, msg.ID),
			sdk.NewAttribute(types.AttributeKeyArbiter, arbiter),
			sdk.NewAttribute(types.AttributeKeySource, source),
		),
	)
	k.Logger(ctx).Info("escrow created", "id", msg.ID, "arbiter", arbiter, "balance", balance.String())
	k.metrics.Created.WithLabelValues(assetKind(deposit)).Inc()

	return nil
}

func (k Keeper) topUp(ctx sdk.Context, id string, deposit types.Balance) error {
	if deposit.IsEmpty() {
		return types.ErrEmptyBalance
	}

	escrow, err := k.GetEscrow(ctx, id)
	if err != nil {
		return err
	}

	if deposit.IsCw20() && !escrow.IsWhitelisted(deposit.Cw20.Address) {
		return types.ErrNotInWhitelist.Wrapf("token %s", deposit.Cw20.Address)
	}

	if err := escrow.Balance.Add(deposit); err != nil {
		return err
	}
	if err := k.SetEscrow(ctx, id, escrow); err != nil {
		return err
	}

	attrs := []sdk.Attribute{
		sdk.NewAttribute(types.AttributeKeyAction, types.ActionTopUp),
		sdk.NewAttribute(types.AttributeKeyID, id),
	}
	if deposit.IsCw20() {
		attrs = append(attrs, sdk.NewAttribute(types.AttributeKeyToken, deposit.Cw20.Address))
	}
	ctx.EventManager().EmitEvent(sdk.NewEvent(types.EventTypeEscrow, attrs...))
	k.Logger(ctx).Debug("escrow topped up", "id", id, "balance", escrow.Balance.String())
	k.metrics.ToppedUp.WithLabelValues(assetKind(deposit)).Inc()

	return nil
}

// settle builds the payout instructions and, when an executor is installed, runs them.
func (k Keeper) settle(ctx sdk.Context, to string, balance types.GenericBalance) ([]types.TransferMsg, error) {
	msgs, err := BuildTransfers(to, balance)
	if err != nil {
		return nil, err
	}
	if k.executor != nil {
		if err := k.executor.Execute(ctx, msgs); err != nil {
			return nil, err
		}
	}
	return msgs, nil
}

// canonicalOrRaw normalizes a caller address for comparison. An address that does not
// decode can never equal a stored identity, so it is compared as given.
func (k Keeper) canonicalOrRaw(raw string) string {
	if canonical, err := k.ValidateAddress(raw); err == nil {
		return canonical
	}
	return raw
}

func assetKind(deposit types.Balance) string {
	if deposit.IsCw20() {
		return "cw20"
	}
	return "native"
}
