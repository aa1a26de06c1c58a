package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec/address"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/Dimont/diogoboilerplate/x/escrow"
	"github.com/Dimont/diogoboilerplate/x/escrow/keeper"
	"github.com/Dimont/diogoboilerplate/x/escrow/types"
)

const (
	Name                 = "escrowd"
	AccountAddressPrefix = "cosmos"
	DefaultChainID       = "escrow-local"
)

// DefaultNodeHome is the default home directory for the escrow host.
var DefaultNodeHome string

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	DefaultNodeHome = filepath.Join(userHomeDir, "."+Name)
}

// Host runs the escrow module against a committed multistore. Every delivered message
// forms its own block: it executes at the last committed height plus one and is
// committed only if it succeeds.
type Host struct {
	mu sync.Mutex

	db      dbm.DB
	cms     storetypes.CommitMultiStore
	logger  log.Logger
	chainID string

	keeper    *keeper.Keeper
	module    escrow.AppModule
	telemetry *Telemetry
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithChainID sets the chain id placed in block headers.
func WithChainID(chainID string) HostOption {
	return func(h *Host) { h.chainID = chainID }
}

// WithTelemetry routes delivery spans and instruments through t.
func WithTelemetry(t *Telemetry) HostOption {
	return func(h *Host) { h.telemetry = t }
}

// WithTransferExecutor executes approve and refund instructions in-process.
func WithTransferExecutor(executor keeper.TransferExecutor) HostOption {
	return func(h *Host) { h.keeper.SetTransferExecutor(executor) }
}

// Result is the outcome of a delivered message.
type Result struct {
	Height   int64               `json:"height"`
	Messages []types.TransferMsg `json:"messages"`
	Events   []sdk.Event         `json:"events"`
}

// NewHost mounts the escrow store on db and loads its latest version.
func NewHost(db dbm.DB, logger log.Logger, bech32Prefix string, opts ...HostOption) (*Host, error) {
	key := storetypes.NewKVStoreKey(types.StoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("failed to load escrow store: %w", err)
	}

	k := keeper.NewKeeper(key, address.NewBech32Codec(bech32Prefix))
	h := &Host{
		db:      db,
		cms:     cms,
		logger:  logger.With("module", "host"),
		chainID: DefaultChainID,
		keeper:  k,
		module:  escrow.NewAppModule(k),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.telemetry == nil {
		h.telemetry = NoopTelemetry()
	}

	h.logger.Info("escrow host started", "height", h.Height(), "chain_id", h.chainID)
	return h, nil
}

// OpenDB opens the host database under home. The memdb backend keeps nothing on disk.
func OpenDB(home, backend string) (dbm.DB, error) {
	if backend == string(dbm.MemDBBackend) {
		return dbm.NewMemDB(), nil
	}
	dir := filepath.Join(home, "data")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return dbm.NewDB(Name, dbm.BackendType(backend), dir)
}

// Height returns the last committed height.
func (h *Host) Height() int64 {
	return h.cms.LastCommitID().Version
}

// Keeper returns the escrow keeper.
func (h *Host) Keeper() *keeper.Keeper {
	return h.keeper
}

// Deliver executes msg in a new block stamped with blockTime. On failure nothing is
// written and the height does not advance.
func (h *Host) Deliver(ctx context.Context, msg types.Msg, blockTime time.Time) (*Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	height := h.Height() + 1
	ctx, span := h.telemetry.StartDeliver(ctx, msg.Type(), height)
	start := time.Now()

	cache := h.cms.CacheMultiStore()
	sdkCtx := h.newContext(cache, height, blockTime).WithContext(ctx)

	res, err := h.module.Handler()(sdkCtx, msg)
	if err != nil {
		h.telemetry.FinishDeliver(ctx, span, msg.Type(), height, time.Since(start), err)
		h.logger.Debug("message rejected", "type", msg.Type(), "height", height, "err", err)
		return nil, err
	}
	h.keeper.SetLastHeight(sdkCtx, height)
	cache.Write()
	commit := h.cms.Commit()

	h.telemetry.FinishDeliver(ctx, span, msg.Type(), commit.Version, time.Since(start), nil)
	h.logger.Info("block committed", "height", commit.Version, "type", msg.Type(), "transfers", len(res.Messages))

	return &Result{
		Height:   commit.Version,
		Messages: res.Messages,
		Events:   sdkCtx.EventManager().Events(),
	}, nil
}

// List runs the list query against the last committed state.
func (h *Host) List(ctx context.Context) (*types.QueryListResponse, error) {
	return h.module.QueryServer().List(h.queryContext(ctx), &types.QueryListRequest{})
}

// Details runs the details query against the last committed state.
func (h *Host) Details(ctx context.Context, id string) (*types.QueryDetailsResponse, error) {
	return h.module.QueryServer().Details(h.queryContext(ctx), &types.QueryDetailsRequest{ID: id})
}

// InitGenesis imports escrows from a raw genesis document and commits them as one block.
func (h *Host) InitGenesis(ctx context.Context, bz json.RawMessage) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.module.ValidateGenesis(bz); err != nil {
		return err
	}

	height := h.Height() + 1
	cache := h.cms.CacheMultiStore()
	sdkCtx := h.newContext(cache, height, time.Now().UTC()).WithContext(ctx)
	if err := h.module.InitGenesis(sdkCtx, bz); err != nil {
		return err
	}
	h.keeper.SetLastHeight(sdkCtx, height)
	cache.Write()
	commit := h.cms.Commit()

	h.logger.Info("genesis imported", "height", commit.Version)
	return nil
}

// ExportGenesis exports every live escrow as a raw genesis document.
func (h *Host) ExportGenesis(ctx context.Context) (json.RawMessage, error) {
	return h.module.ExportGenesis(h.queryContext(ctx))
}

// CheckInvariants runs every registered escrow invariant against the last committed
// state and returns the messages of the broken ones.
func (h *Host) CheckInvariants(ctx context.Context) []string {
	ir := &invariantRegistry{routes: map[string]sdk.Invariant{}}
	h.module.RegisterInvariants(ir)

	sdkCtx := h.queryContext(ctx)
	var broken []string
	for _, route := range ir.sorted() {
		if msg, stop := ir.routes[route](sdkCtx); stop {
			broken = append(broken, msg)
		}
	}
	return broken
}

// Close releases the database.
func (h *Host) Close() error {
	return h.db.Close()
}

func (h *Host) newContext(ms storetypes.MultiStore, height int64, blockTime time.Time) sdk.Context {
	header := cmtproto.Header{
		ChainID: h.chainID,
		Height:  height,
		Time:    blockTime,
	}
	return sdk.NewContext(ms, header, false, h.logger)
}

func (h *Host) queryContext(ctx context.Context) sdk.Context {
	return h.newContext(h.cms.CacheMultiStore(), h.Height(), time.Now().UTC()).WithContext(ctx)
}

type invariantRegistry struct {
	routes map[string]sdk.Invariant
}

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes[moduleName+"/"+route] = invar
}

func (r *invariantRegistry) sorted() []string {
	routes := make([]string, 0, len(r.routes))
	for route := range r.routes {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}
