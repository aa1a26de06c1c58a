package keeper

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// TransferExecutor carries out payout instructions. An error aborts the message that
// produced them.
type TransferExecutor interface {
	Execute(ctx sdk.Context, msgs []types.TransferMsg) error
}

// BankExecutor pays native coins out of the escrow module account through the bank
// keeper and invokes token contracts through the contract keeper, with the module
// account as caller.
type BankExecutor struct {
	bank      types.BankKeeper
	contracts types.ContractKeeper
	keeper    *Keeper
}

var _ TransferExecutor = BankExecutor{}

// NewBankExecutor creates a BankExecutor. contracts may be nil when no token contracts
// are deployed; token instructions then fail.
func NewBankExecutor(k *Keeper, bank types.BankKeeper, contracts types.ContractKeeper) BankExecutor {
	return BankExecutor{bank: bank, contracts: contracts, keeper: k}
}

// ModuleAddress is the account holding escrowed native coins.
func ModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// Execute runs the instructions in order and stops at the first failure.
func (e BankExecutor) Execute(ctx sdk.Context, msgs []types.TransferMsg) error {
	for i, msg := range msgs {
		switch {
		case msg.Bank != nil:
			to, err := e.keeper.addressCodec.StringToBytes(msg.Bank.ToAddress)
			if err != nil {
				return types.ErrTransferFailed.Wrapf("instruction %d: invalid recipient: %v", i, err)
			}
			coins := sdk.NewCoins(msg.Bank.Amount...)
			if err := e.bank.SendCoinsFromModuleToAccount(ctx, types.ModuleName, to, coins); err != nil {
				return types.ErrTransferFailed.Wrapf("instruction %d: send %s: %v", i, coins, err)
			}
		case msg.Wasm != nil:
			if e.contracts == nil {
				return types.ErrTransferFailed.Wrapf("instruction %d: no contract keeper for %s", i, msg.Wasm.ContractAddr)
			}
			contract, err := e.keeper.addressCodec.StringToBytes(msg.Wasm.ContractAddr)
			if err != nil {
				return types.ErrTransferFailed.Wrapf("instruction %d: invalid contract: %v", i, err)
			}
			if _, err := e.contracts.Execute(ctx, contract, ModuleAddress(), msg.Wasm.Msg, sdk.NewCoins(msg.Wasm.Funds...)); err != nil {
				return types.ErrTransferFailed.Wrapf("instruction %d: execute %s: %v", i, msg.Wasm.ContractAddr, err)
			}
		default:
			return types.ErrTransferFailed.Wrapf("instruction %d is empty", i)
		}
	}
	return nil
}
