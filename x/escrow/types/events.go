package types

// Event types for the escrow module
const (
	EventTypeEscrow = "escrow"
)

// Event attribute keys for the escrow module
const (
	AttributeKeyAction    = "action"
	AttributeKeyID        = "id"
	AttributeKeyRecipient = "recipient"
	AttributeKeyTo        = "to"
	AttributeKeySource    = "source"
	AttributeKeyToken     = "token"
	AttributeKeyAmount    = "amount"
	AttributeKeyArbiter   = "arbiter"
)

// Action values carried in the action attribute
const (
	ActionCreateEscrow = "create_escrow"
	ActionSetRecipient = "set_recipient"
	ActionApprove      = "approve"
	ActionRefund       = "refund"
	ActionTopUp        = "top_up"
	ActionReceive      = "receive"
)
