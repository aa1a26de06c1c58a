package types

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// QueryListRequest asks for every live escrow id.
type QueryListRequest struct{}

// QueryListResponse lists live escrow ids in ascending order.
type QueryListResponse struct {
	Escrows []string `json:"escrows"`
}

// QueryDetailsRequest asks for one escrow.
type QueryDetailsRequest struct {
	ID string `json:"id"`
}

// QueryDetailsResponse describes one escrow.
type QueryDetailsResponse struct {
	ID string `json:"id"`
	// Arbiter can decide to approve or refund the escrow
	Arbiter string `json:"arbiter"`
	// Recipient receives the funds if approved
	Recipient *string `json:"recipient,omitempty"`
	// Source receives the funds if refunded
	Source        string     `json:"source"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	EndHeight     *uint64    `json:"end_height,omitempty"`
	EndTime       *uint64    `json:"end_time,omitempty"`
	NativeBalance []sdk.Coin `json:"native_balance"`
	Cw20Balance   []Cw20Coin `json:"cw20_balance"`
	Cw20Whitelist []string   `json:"cw20_whitelist"`
}

// MsgServer handles the escrow operations.
type MsgServer interface {
	CreateEscrow(context.Context, *MsgCreateEscrow) (*MsgResponse, error)
	SetRecipient(context.Context, *MsgSetRecipient) (*MsgResponse, error)
	Approve(context.Context, *MsgApprove) (*MsgResponse, error)
	Refund(context.Context, *MsgRefund) (*MsgResponse, error)
	TopUp(context.Context, *MsgTopUp) (*MsgResponse, error)
	Receive(context.Context, *MsgReceive) (*MsgResponse, error)
}

// QueryServer serves read-only escrow queries.
type QueryServer interface {
	List(context.Context, *QueryListRequest) (*QueryListResponse, error)
	Details(context.Context, *QueryDetailsRequest) (*QueryDetailsResponse, error)
}
