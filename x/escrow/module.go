package escrow

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/core/address"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dimont/diogoboilerplate/x/escrow/keeper"
	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

// AppModuleBasic defines the basic application module for the escrow module.
type AppModuleBasic struct {
	ac address.Codec
}

// NewAppModuleBasic creates an AppModuleBasic that validates identities with ac.
func NewAppModuleBasic(ac address.Codec) AppModuleBasic {
	return AppModuleBasic{ac: ac}
}

// Name returns the escrow module's name.
func (AppModuleBasic) Name() string {
	return types.ModuleName
}

// DefaultGenesis returns the escrow module's default genesis state as raw JSON.
func (AppModuleBasic) DefaultGenesis() json.RawMessage {
	bz, err := json.Marshal(types.DefaultGenesis())
	if err != nil {
		panic(err)
	}
	return bz
}

// ValidateGenesis performs genesis state validation for the escrow module.
func (amb AppModuleBasic) ValidateGenesis(bz json.RawMessage) error {
	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return fmt.Errorf("failed to unmarshal %s genesis state: %w", types.ModuleName, err)
	}
	return gs.Validate(amb.ac)
}

// AppModule implements an application module for the escrow module.
type AppModule struct {
	AppModuleBasic
	keeper  *keeper.Keeper
	handler keeper.Handler
}

// NewAppModule creates a new AppModule object
func NewAppModule(k *keeper.Keeper) AppModule {
	return AppModule{
		AppModuleBasic: NewAppModuleBasic(k.AddressCodec()),
		keeper:         k,
		handler:        keeper.NewHandler(k),
	}
}

// Handler returns the message handler of the escrow module.
func (am AppModule) Handler() keeper.Handler {
	return am.handler
}

// QueryServer returns the read-only query service of the escrow module.
func (am AppModule) QueryServer() types.QueryServer {
	return keeper.NewQueryServerImpl(*am.keeper)
}

// RegisterInvariants registers the escrow module's invariants.
func (am AppModule) RegisterInvariants(ir sdk.InvariantRegistry) {
	keeper.RegisterInvariants(ir, *am.keeper)
}

// InitGenesis performs the escrow module's genesis initialization.
func (am AppModule) InitGenesis(ctx context.Context, bz json.RawMessage) error {
	var gs types.GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return fmt.Errorf("failed to unmarshal %s genesis state: %w", types.ModuleName, err)
	}
	if err := gs.Validate(am.ac); err != nil {
		return err
	}
	return am.keeper.InitGenesis(ctx, gs)
}

// ExportGenesis returns the escrow module's exported genesis state as raw JSON.
func (am AppModule) ExportGenesis(ctx context.Context) (json.RawMessage, error) {
	gs, err := am.keeper.ExportGenesis(ctx)
	if err != nil {
		return nil, err
	}
	return json.Marshal(gs)
}

// ConsensusVersion implements AppModule/ConsensusVersion.
// It returns the current consensus version of the module.
func (AppModule) ConsensusVersion() uint64 { return 1 }
