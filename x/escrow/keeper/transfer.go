package keeper

import (
	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// BuildTransfers converts a balance into the instructions that pay it out to to. The
// native line items travel in one bank send, which comes first; each token line item
// follows as its own transfer, in stored order. If any instruction fails to encode,
// none are returned.
func BuildTransfers(to string, balance types.GenericBalance) ([]types.TransferMsg, error) {
	msgs := make([]types.TransferMsg, 0, len(balance.Cw20)+1)
	if len(balance.Native) > 0 {
		msgs = append(msgs, types.NewBankSendMsg(to, balance.Native))
	}

	for _, token := range balance.Cw20 {
		msg, err := types.NewCw20TransferMsg(token.Address, to, token.Amount)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}
