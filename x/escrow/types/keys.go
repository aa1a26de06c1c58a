package types

const (
	// ModuleName defines the module name
	ModuleName = "escrow"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey is the message route for escrow
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

var (
	// EscrowKeyPrefix is the prefix for escrow records, keyed by escrow id
	EscrowKeyPrefix = []byte{0x01}

	// LastHeightKey holds the height of the last committed block
	LastHeightKey = []byte{0x02}
)

// EscrowKey returns the store key for an escrow id.
func EscrowKey(id string) []byte {
	return append(append([]byte{}, EscrowKeyPrefix...), []byte(id)...)
}

const (
	// MinEscrowIDLength is the shortest accepted escrow id in bytes
	MinEscrowIDLength = 3
	// MaxEscrowIDLength is the longest accepted escrow id in bytes
	MaxEscrowIDLength = 20
)

// IsValidEscrowID reports whether id has an acceptable length.
func IsValidEscrowID(id string) bool {
	return len(id) >= MinEscrowIDLength && len(id) <= MaxEscrowIDLength
}
