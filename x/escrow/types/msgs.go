package types

import (
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Msg is an inbound escrow operation. The set of implementations is closed: only the
// message types in this file satisfy it.
type Msg interface {
	ValidateBasic() error
	// GetSender returns the address that signed or forwarded the message.
	GetSender() string
	// Type returns the action name used in events and metrics.
	Type() string

	isEscrowMsg()
}

var (
	_ Msg = &MsgCreateEscrow{}
	_ Msg = &MsgSetRecipient{}
	_ Msg = &MsgApprove{}
	_ Msg = &MsgRefund{}
	_ Msg = &MsgTopUp{}
	_ Msg = &MsgReceive{}
)

// CreateMsg describes a new escrow.
type CreateMsg struct {
	ID          string  `json:"id"`
	Arbiter     string  `json:"arbiter"`
	Recipient   *string `json:"recipient,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	EndHeight   *uint64 `json:"end_height,omitempty"`
	EndTime     *uint64 `json:"end_time,omitempty"`
	// Cw20Whitelist lists the token contracts the escrow accepts. Nil and empty are equivalent.
	Cw20Whitelist []string `json:"cw20_whitelist,omitempty"`
}

// ValidateBasic performs stateless checks on the escrow description.
func (m CreateMsg) ValidateBasic() error {
	if err := validateEscrowID(m.ID); err != nil {
		return err
	}
	if strings.TrimSpace(m.Arbiter) == "" {
		return ErrInvalidAddress.Wrap("arbiter cannot be empty")
	}
	return nil
}

// MsgCreateEscrow creates an escrow funded with the native coins sent along with it.
type MsgCreateEscrow struct {
	Sender string     `json:"sender"`
	Escrow CreateMsg  `json:"escrow"`
	Funds  []sdk.Coin `json:"funds"`
}

// NewMsgCreateEscrow creates a new MsgCreateEscrow instance
func NewMsgCreateEscrow(sender string, create CreateMsg, funds ...sdk.Coin) *MsgCreateEscrow {
	return &MsgCreateEscrow{Sender: sender, Escrow: create, Funds: funds}
}

func (m *MsgCreateEscrow) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if err := m.Escrow.ValidateBasic(); err != nil {
		return err
	}
	return NewNativeBalance(m.Funds...).Validate()
}

func (m *MsgCreateEscrow) GetSender() string { return m.Sender }
func (m *MsgCreateEscrow) Type() string      { return ActionCreateEscrow }
func (*MsgCreateEscrow) isEscrowMsg()        {}

// MsgSetRecipient assigns the recipient of an escrow. Only the arbiter may send it.
type MsgSetRecipient struct {
	Sender    string `json:"sender"`
	ID        string `json:"id"`
	Recipient string `json:"recipient"`
}

// NewMsgSetRecipient creates a new MsgSetRecipient instance
func NewMsgSetRecipient(sender, id, recipient string) *MsgSetRecipient {
	return &MsgSetRecipient{Sender: sender, ID: id, Recipient: recipient}
}

func (m *MsgSetRecipient) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if err := validateEscrowID(m.ID); err != nil {
		return err
	}
	if strings.TrimSpace(m.Recipient) == "" {
		return ErrInvalidAddress.Wrap("recipient cannot be empty")
	}
	return nil
}

func (m *MsgSetRecipient) GetSender() string { return m.Sender }
func (m *MsgSetRecipient) Type() string      { return ActionSetRecipient }
func (*MsgSetRecipient) isEscrowMsg()        {}

// MsgApprove releases the escrow to its recipient.
type MsgApprove struct {
	Sender string `json:"sender"`
	ID     string `json:"id"`
}

// NewMsgApprove creates a new MsgApprove instance
func NewMsgApprove(sender, id string) *MsgApprove {
	return &MsgApprove{Sender: sender, ID: id}
}

func (m *MsgApprove) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	return validateEscrowID(m.ID)
}

func (m *MsgApprove) GetSender() string { return m.Sender }
func (m *MsgApprove) Type() string      { return ActionApprove }
func (*MsgApprove) isEscrowMsg()        {}

// MsgRefund returns the escrow to its source.
type MsgRefund struct {
	Sender string `json:"sender"`
	ID     string `json:"id"`
}

// NewMsgRefund creates a new MsgRefund instance
func NewMsgRefund(sender, id string) *MsgRefund {
	return &MsgRefund{Sender: sender, ID: id}
}

func (m *MsgRefund) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	return validateEscrowID(m.ID)
}

func (m *MsgRefund) GetSender() string { return m.Sender }
func (m *MsgRefund) Type() string      { return ActionRefund }
func (*MsgRefund) isEscrowMsg()        {}

// MsgTopUp adds the native coins sent along with it to an existing escrow.
type MsgTopUp struct {
	Sender string     `json:"sender"`
	ID     string     `json:"id"`
	Funds  []sdk.Coin `json:"funds"`
}

// NewMsgTopUp creates a new MsgTopUp instance
func NewMsgTopUp(sender, id string, funds ...sdk.Coin) *MsgTopUp {
	return &MsgTopUp{Sender: sender, ID: id, Funds: funds}
}

func (m *MsgTopUp) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if err := validateEscrowID(m.ID); err != nil {
		return err
	}
	return NewNativeBalance(m.Funds...).Validate()
}

func (m *MsgTopUp) GetSender() string { return m.Sender }
func (m *MsgTopUp) Type() string      { return ActionTopUp }
func (*MsgTopUp) isEscrowMsg()        {}

// Cw20ReceiveMsg is the notification a token contract sends after tokens were transferred
// to the escrow. Msg carries an encoded ReceiveMsg.
type Cw20ReceiveMsg struct {
	Sender string   `json:"sender"`
	Amount math.Int `json:"amount"`
	Msg    []byte   `json:"msg"`
}

// MsgReceive delivers a token notification. Sender is the token contract; the deposited
// asset is identified by it, not by anything inside the notification.
type MsgReceive struct {
	Sender  string         `json:"sender"`
	Receive Cw20ReceiveMsg `json:"receive"`
}

// NewMsgReceive creates a new MsgReceive instance
func NewMsgReceive(token, depositor string, amount math.Int, msg []byte) *MsgReceive {
	return &MsgReceive{
		Sender: token,
		Receive: Cw20ReceiveMsg{
			Sender: depositor,
			Amount: amount,
			Msg:    msg,
		},
	}
}

func (m *MsgReceive) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if strings.TrimSpace(m.Receive.Sender) == "" {
		return ErrInvalidAddress.Wrap("depositor cannot be empty")
	}
	if err := NewCw20Balance(m.Sender, m.Receive.Amount).Validate(); err != nil {
		return err
	}
	if len(m.Receive.Msg) == 0 {
		return ErrInvalidMsg.Wrap("receive notification carries no instruction")
	}
	return nil
}

func (m *MsgReceive) GetSender() string { return m.Sender }
func (m *MsgReceive) Type() string      { return ActionReceive }
func (*MsgReceive) isEscrowMsg()        {}

// Deposit returns the token deposit reported by the notification.
func (m *MsgReceive) Deposit() Balance {
	return NewCw20Balance(m.Sender, m.Receive.Amount)
}

func validateSender(sender string) error {
	if strings.TrimSpace(sender) == "" {
		return ErrInvalidAddress.Wrap("sender cannot be empty")
	}
	return nil
}

func validateEscrowID(id string) error {
	if !IsValidEscrowID(id) {
		return ErrInvalidMsg.Wrapf("escrow id must be %d to %d bytes, got %d",
			MinEscrowIDLength, MaxEscrowIDLength, len(id))
	}
	return nil
}
