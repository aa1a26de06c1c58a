package types

import (
	"bytes"
	"encoding/json"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// IDMsg is the body of the id-only operations.
type IDMsg struct {
	ID string `json:"id"`
}

// SetRecipientMsg is the body of a set_recipient operation.
type SetRecipientMsg struct {
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
}

// ExecuteMsg is the wire form of an inbound operation: a JSON object with exactly one
// snake_case key naming the operation, e.g. {"approve":{"id":"foobar"}}.
type ExecuteMsg struct {
	CreateEscrow *CreateMsg       `json:"create_escrow,omitempty"`
	SetRecipient *SetRecipientMsg `json:"set_recipient,omitempty"`
	Approve      *IDMsg           `json:"approve,omitempty"`
	Refund       *IDMsg           `json:"refund,omitempty"`
	TopUp        *IDMsg           `json:"top_up,omitempty"`
	Receive      *Cw20ReceiveMsg  `json:"receive,omitempty"`
}

// ReceiveMsg is the instruction embedded in a token notification.
type ReceiveMsg struct {
	CreateEscrow *CreateMsg `json:"create_escrow,omitempty"`
	TopUp        *IDMsg     `json:"top_up,omitempty"`
}

// DecodeExecuteMsg parses the wire form of an inbound operation.
func DecodeExecuteMsg(bz []byte) (ExecuteMsg, error) {
	var msg ExecuteMsg
	if err := strictUnmarshal(bz, &msg); err != nil {
		return ExecuteMsg{}, ErrInvalidMsg.Wrapf("decode execute msg: %v", err)
	}
	set := 0
	for _, ok := range []bool{
		msg.CreateEscrow != nil, msg.SetRecipient != nil, msg.Approve != nil,
		msg.Refund != nil, msg.TopUp != nil, msg.Receive != nil,
	} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return ExecuteMsg{}, ErrInvalidMsg.Wrapf("execute msg must name exactly one operation, got %d", set)
	}
	return msg, nil
}

// ToMsg binds a decoded operation to the address that sent it and the native coins that
// came with it.
func (m ExecuteMsg) ToMsg(sender string, funds []sdk.Coin) (Msg, error) {
	switch {
	case m.CreateEscrow != nil:
		return NewMsgCreateEscrow(sender, *m.CreateEscrow, funds...), nil
	case m.SetRecipient != nil:
		return NewMsgSetRecipient(sender, m.SetRecipient.ID, m.SetRecipient.Recipient), nil
	case m.Approve != nil:
		return NewMsgApprove(sender, m.Approve.ID), nil
	case m.Refund != nil:
		return NewMsgRefund(sender, m.Refund.ID), nil
	case m.TopUp != nil:
		return NewMsgTopUp(sender, m.TopUp.ID, funds...), nil
	case m.Receive != nil:
		return &MsgReceive{Sender: sender, Receive: *m.Receive}, nil
	}
	return nil, ErrInvalidMsg.Wrap("empty execute msg")
}

// DecodeReceiveMsg parses the instruction embedded in a token notification.
func DecodeReceiveMsg(bz []byte) (ReceiveMsg, error) {
	var msg ReceiveMsg
	if err := strictUnmarshal(bz, &msg); err != nil {
		return ReceiveMsg{}, ErrInvalidMsg.Wrapf("decode receive msg: %v", err)
	}
	if (msg.CreateEscrow == nil) == (msg.TopUp == nil) {
		return ReceiveMsg{}, ErrInvalidMsg.Wrap("receive msg must be exactly one of create_escrow or top_up")
	}
	return msg, nil
}

// Encode returns the JSON form carried inside a Cw20ReceiveMsg.
func (m ReceiveMsg) Encode() ([]byte, error) {
	return json.Marshal(m)
}

func strictUnmarshal(bz []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(bz))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
