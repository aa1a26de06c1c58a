package cli

// Flag constants for escrow CLI commands
const (
	// Sender flags
	FlagFrom      = "from"
	FlagFunds     = "funds"
	FlagBlockTime = "block-time"

	// Create flags
	FlagRecipient   = "recipient"
	FlagTitle       = "title"
	FlagDescription = "description"
	FlagEndHeight   = "end-height"
	FlagEndTime     = "end-time"
	FlagWhitelist   = "whitelist"

	// Receive flags
	FlagDepositor = "depositor"
)
