package types

import (
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// TransferMsg is an unexecuted fund movement handed to the host. Exactly one of Bank or
// Wasm is set.
type TransferMsg struct {
	Bank *BankSend    `json:"bank,omitempty"`
	Wasm *WasmExecute `json:"wasm,omitempty"`
}

// BankSend moves native coins out of the escrow account.
type BankSend struct {
	ToAddress string     `json:"to_address"`
	Amount    []sdk.Coin `json:"amount"`
}

// WasmExecute invokes a token contract with an encoded execute message.
type WasmExecute struct {
	ContractAddr string     `json:"contract_addr"`
	Msg          []byte     `json:"msg"`
	Funds        []sdk.Coin `json:"funds"`
}

// Cw20ExecuteMsg is the subset of the token contract interface the escrow calls.
type Cw20ExecuteMsg struct {
	Transfer *Cw20Transfer `json:"transfer,omitempty"`
}

// Cw20Transfer moves tokens held by the caller to Recipient.
type Cw20Transfer struct {
	Recipient string   `json:"recipient"`
	Amount    math.Int `json:"amount"`
}

// NewBankSendMsg wraps a native send.
func NewBankSendMsg(to string, amount []sdk.Coin) TransferMsg {
	coins := make([]sdk.Coin, len(amount))
	copy(coins, amount)
	return TransferMsg{Bank: &BankSend{ToAddress: to, Amount: coins}}
}

// NewCw20TransferMsg encodes a token transfer of amount to recipient, executed on token.
func NewCw20TransferMsg(token, recipient string, amount math.Int) (TransferMsg, error) {
	bz, err := json.Marshal(Cw20ExecuteMsg{
		Transfer: &Cw20Transfer{Recipient: recipient, Amount: amount},
	})
	if err != nil {
		return TransferMsg{}, ErrEncode.Wrapf("token %s: %v", token, err)
	}
	return TransferMsg{Wasm: &WasmExecute{ContractAddr: token, Msg: bz, Funds: []sdk.Coin{}}}, nil
}

// String implements fmt.Stringer
func (m TransferMsg) String() string {
	switch {
	case m.Bank != nil:
		return fmt.Sprintf("bank send %s to %s", sdk.Coins(m.Bank.Amount), m.Bank.ToAddress)
	case m.Wasm != nil:
		return fmt.Sprintf("execute %s: %s", m.Wasm.ContractAddr, m.Wasm.Msg)
	}
	return "<empty transfer>"
}

// MsgResponse is returned by every successful operation. Messages are to be executed by
// the host in order.
type MsgResponse struct {
	Messages []TransferMsg `json:"messages"`
}
