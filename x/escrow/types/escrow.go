package types

import (
	"fmt"
	"math"
	"time"

	"cosmossdk.io/core/address"
)

// Escrow is one arbitrated deposit.
type Escrow struct {
	// Arbiter can set the recipient, approve, and refund at any time.
	Arbiter string `json:"arbiter"`
	// Recipient receives the funds on approval. Approval fails while it is unset.
	Recipient *string `json:"recipient,omitempty"`
	// Source funded the escrow and receives the funds on refund.
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// EndHeight expires the escrow once the block height exceeds it.
	EndHeight *uint64 `json:"end_height,omitempty"`
	// EndTime, in seconds since the unix epoch, expires the escrow once block time exceeds it.
	EndTime *uint64 `json:"end_time,omitempty"`
	// Balance holds the native and token funds.
	Balance GenericBalance `json:"balance"`
	// Cw20Whitelist lists the token contracts this escrow accepts deposits from.
	Cw20Whitelist []string `json:"cw20_whitelist"`
}

// IsExpired reports whether either bound has been passed. Reaching a bound exactly is not
// expiry.
func (e Escrow) IsExpired(height uint64, now time.Time) bool {
	if e.EndHeight != nil && height > *e.EndHeight {
		return true
	}
	if e.EndTime != nil && *e.EndTime <= math.MaxInt64 {
		if now.After(time.Unix(int64(*e.EndTime), 0)) {
			return true
		}
	}
	return false
}

// IsWhitelisted reports whether the token contract may deposit into this escrow.
func (e Escrow) IsWhitelisted(token string) bool {
	for _, t := range e.Cw20Whitelist {
		if t == token {
			return true
		}
	}
	return false
}

// HumanWhitelist returns a copy of the whitelist.
func (e Escrow) HumanWhitelist() []string {
	out := make([]string, len(e.Cw20Whitelist))
	copy(out, e.Cw20Whitelist)
	return out
}

// HasRecipient reports whether a recipient has been set.
func (e Escrow) HasRecipient() bool {
	return e.Recipient != nil
}

// Validate checks a stored escrow: identities valid under ac, a non-empty consistent
// balance, and every token line item whitelisted.
func (e Escrow) Validate(ac address.Codec) error {
	if _, err := ac.StringToBytes(e.Arbiter); err != nil {
		return ErrInvalidAddress.Wrapf("arbiter: %v", err)
	}
	if _, err := ac.StringToBytes(e.Source); err != nil {
		return ErrInvalidAddress.Wrapf("source: %v", err)
	}
	if e.Recipient != nil {
		if _, err := ac.StringToBytes(*e.Recipient); err != nil {
			return ErrInvalidAddress.Wrapf("recipient: %v", err)
		}
	}
	for _, token := range e.Cw20Whitelist {
		if _, err := ac.StringToBytes(token); err != nil {
			return ErrInvalidAddress.Wrapf("whitelist entry %q: %v", token, err)
		}
	}
	if e.Balance.IsEmpty() {
		return ErrEmptyBalance
	}
	if err := e.Balance.Validate(); err != nil {
		return ErrInvalidCoins.Wrap(err.Error())
	}
	for _, token := range e.Balance.Cw20 {
		if !e.IsWhitelisted(token.Address) {
			return ErrNotInWhitelist.Wrapf("token line item %s", token.Address)
		}
	}
	return nil
}

// String implements fmt.Stringer
func (e Escrow) String() string {
	recipient := "<unset>"
	if e.Recipient != nil {
		recipient = *e.Recipient
	}
	return fmt.Sprintf("Escrow{arbiter: %s, recipient: %s, source: %s, balance: [%s]}",
		e.Arbiter, recipient, e.Source, e.Balance)
}
