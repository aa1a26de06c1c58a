package types

import (
	"fmt"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Cw20Coin is a token line item: the token contract that issued it and the amount held.
type Cw20Coin struct {
	Address string   `json:"address"`
	Amount  math.Int `json:"amount"`
}

// String implements fmt.Stringer
func (c Cw20Coin) String() string {
	return fmt.Sprintf("%s%s", c.Amount, c.Address)
}

// Balance is a single incoming deposit. Exactly one of Native or Cw20 is meaningful:
// a deposit carries either the native coins sent along with a message, or the amount
// reported by one token contract's receive notification.
type Balance struct {
	Native []sdk.Coin
	Cw20   *Cw20Coin
}

// NewNativeBalance wraps the native coins sent with a message.
func NewNativeBalance(coins ...sdk.Coin) Balance {
	return Balance{Native: coins}
}

// NewCw20Balance wraps an amount reported by a token contract.
func NewCw20Balance(token string, amount math.Int) Balance {
	return Balance{Cw20: &Cw20Coin{Address: token, Amount: amount}}
}

// IsCw20 reports whether the deposit came from a token contract.
func (b Balance) IsCw20() bool {
	return b.Cw20 != nil
}

// IsEmpty reports whether the deposit carries no value. Zero-amount coins are empty.
func (b Balance) IsEmpty() bool {
	if b.Cw20 != nil {
		return b.Cw20.Amount.IsNil() || b.Cw20.Amount.IsZero()
	}
	for _, coin := range b.Native {
		if !coin.Amount.IsNil() && !coin.Amount.IsZero() {
			return false
		}
	}
	return true
}

// Validate checks denominations and that no amount is negative. Native deposits may not
// repeat a denomination.
func (b Balance) Validate() error {
	if b.Cw20 != nil {
		if len(b.Native) > 0 {
			return ErrInvalidCoins.Wrap("deposit mixes native coins and a token")
		}
		if strings.TrimSpace(b.Cw20.Address) == "" {
			return ErrInvalidCoins.Wrap("token address cannot be empty")
		}
		if b.Cw20.Amount.IsNil() || b.Cw20.Amount.IsNegative() {
			return ErrInvalidCoins.Wrapf("invalid token amount %s", b.Cw20.Amount)
		}
		return nil
	}

	seen := make(map[string]struct{}, len(b.Native))
	for _, coin := range b.Native {
		if err := coin.Validate(); err != nil {
			return ErrInvalidCoins.Wrap(err.Error())
		}
		if _, dup := seen[coin.Denom]; dup {
			return ErrInvalidCoins.Wrapf("duplicate denomination %s", coin.Denom)
		}
		seen[coin.Denom] = struct{}{}
	}
	return nil
}

// GenericBalance is the escrowed funds: native line items and token line items, each in
// the order the denomination or token was first deposited.
type GenericBalance struct {
	Native []sdk.Coin `json:"native"`
	Cw20   []Cw20Coin `json:"cw20"`
}

// IsEmpty reports whether neither native nor token line items exist.
func (g GenericBalance) IsEmpty() bool {
	return len(g.Native) == 0 && len(g.Cw20) == 0
}

// Add merges a deposit into the balance. A line item that already exists is increased in
// place; a new one is appended. Zero amounts never create a line item. On overflow the
// balance is left unchanged.
func (g *GenericBalance) Add(add Balance) error {
	if add.Cw20 != nil {
		if add.Cw20.Amount.IsNil() || add.Cw20.Amount.IsZero() {
			return nil
		}
		cw20 := append([]Cw20Coin(nil), g.Cw20...)
		merged := false
		for i, exist := range cw20 {
			if exist.Address != add.Cw20.Address {
				continue
			}
			sum, err := exist.Amount.SafeAdd(add.Cw20.Amount)
			if err != nil {
				return ErrOverflow.Wrapf("token %s: %v", exist.Address, err)
			}
			cw20[i].Amount = sum
			merged = true
			break
		}
		if !merged {
			cw20 = append(cw20, *add.Cw20)
		}
		g.Cw20 = cw20
		return nil
	}

	native := append([]sdk.Coin(nil), g.Native...)
	for _, coin := range add.Native {
		if coin.Amount.IsNil() || coin.Amount.IsZero() {
			continue
		}
		idx := -1
		for i, exist := range native {
			if exist.Denom == coin.Denom {
				idx = i
				break
			}
		}
		if idx < 0 {
			native = append(native, coin)
			continue
		}
		sum, err := native[idx].Amount.SafeAdd(coin.Amount)
		if err != nil {
			return ErrOverflow.Wrapf("denom %s: %v", coin.Denom, err)
		}
		native[idx].Amount = sum
	}
	g.Native = native
	return nil
}

// Validate checks the invariants of a stored balance: positive amounts and at most one
// line item per denomination or token.
func (g GenericBalance) Validate() error {
	denoms := make(map[string]struct{}, len(g.Native))
	for _, coin := range g.Native {
		if err := coin.Validate(); err != nil {
			return err
		}
		if !coin.IsPositive() {
			return fmt.Errorf("zero native line item %s", coin.Denom)
		}
		if _, dup := denoms[coin.Denom]; dup {
			return fmt.Errorf("duplicate native line item %s", coin.Denom)
		}
		denoms[coin.Denom] = struct{}{}
	}

	tokens := make(map[string]struct{}, len(g.Cw20))
	for _, token := range g.Cw20 {
		if token.Amount.IsNil() || !token.Amount.IsPositive() {
			return fmt.Errorf("invalid amount for token %s", token.Address)
		}
		if _, dup := tokens[token.Address]; dup {
			return fmt.Errorf("duplicate token line item %s", token.Address)
		}
		tokens[token.Address] = struct{}{}
	}
	return nil
}

// String implements fmt.Stringer
func (g GenericBalance) String() string {
	parts := make([]string, 0, len(g.Native)+len(g.Cw20))
	for _, coin := range g.Native {
		parts = append(parts, coin.String())
	}
	for _, token := range g.Cw20 {
		parts = append(parts, token.String())
	}
	return strings.Join(parts, ",")
}
