package types

import (
	sdkerrors "cosmossdk.io/errors"
)

// Escrow module sentinel errors
var (
	// Lifecycle errors
	ErrEmptyBalance    = sdkerrors.Register(ModuleName, 2, "escrow deposit is empty")
	ErrAlreadyInUse    = sdkerrors.Register(ModuleName, 3, "escrow id already in use")
	ErrNotFound        = sdkerrors.Register(ModuleName, 4, "escrow not found")
	ErrExpired         = sdkerrors.Register(ModuleName, 5, "escrow expired")
	ErrRecipientNotSet = sdkerrors.Register(ModuleName, 6, "escrow recipient not set")

	// Authorization errors
	ErrUnauthorized   = sdkerrors.Register(ModuleName, 10, "unauthorized")
	ErrNotInWhitelist = sdkerrors.Register(ModuleName, 11, "token not in escrow whitelist")

	// Input errors
	ErrInvalidAddress = sdkerrors.Register(ModuleName, 20, "invalid address")
	ErrInvalidMsg     = sdkerrors.Register(ModuleName, 21, "invalid escrow message")
	ErrInvalidCoins   = sdkerrors.Register(ModuleName, 22, "invalid deposit coins")

	// Accounting errors
	ErrOverflow = sdkerrors.Register(ModuleName, 30, "balance overflow")
	ErrEncode   = sdkerrors.Register(ModuleName, 31, "failed to encode transfer instruction")
	ErrCorrupt  = sdkerrors.Register(ModuleName, 32, "corrupt escrow record")

	// Execution errors
	ErrTransferFailed = sdkerrors.Register(ModuleName, 40, "transfer execution failed")
)
