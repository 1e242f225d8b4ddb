package clients

import (
	"context"
	"encoding/json"
	"sync"

	eos "github.com/eoscanada/eos-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/atomicbuyer/internal/domain"
	"github.com/vadiminshakov/atomicbuyer/internal/ledger"
)

// EosioClient implements the ledger ports on top of an EOSIO chain API node.
type EosioClient struct {
	api    *eos.API
	logger *zap.Logger

	abiMu sync.Mutex
	abis  map[string]*eos.ABI
}

// NewEosioClient creates a client for the node at apiURL and imports the given WIF keys
// for signing. Without keys the client can only read.
func NewEosioClient(ctx context.Context, apiURL string, logger *zap.Logger, wifKeys ...string) (*EosioClient, error) {
	if apiURL == "" {
		return nil, errors.New("api url is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	api := eos.New(apiURL)
	if len(wifKeys) > 0 {
		keyBag := eos.NewKeyBag()
		for _, key := range wifKeys {
			if err := keyBag.ImportPrivateKey(ctx, key); err != nil {
				return nil, errors.Wrap(err, "import private key")
			}
		}
		api.SetSigner(keyBag)
	}

	return &EosioClient{
		api:    api,
		logger: logger,
		abis:   make(map[string]*eos.ABI),
	}, nil
}

// QueryTable implements ledger.TableQuerier with get_table_rows.
func (c *EosioClient) QueryTable(ctx context.Context, q ledger.TableQuery) ([]json.RawMessage, error) {
	resp, err := c.api.GetTableRows(ctx, tableRowsRequest(q))
	if err != nil {
		return nil, errors.Wrapf(err, "get_table_rows %s/%s/%s", q.Contract, q.Scope, q.Table)
	}

	var rows []json.RawMessage
	if len(resp.Rows) > 0 {
		if err := json.Unmarshal(resp.Rows, &rows); err != nil {
			return nil, errors.Wrapf(err, "decode rows of %s/%s", q.Contract, q.Table)
		}
	}

	c.logger.Debug("table rows fetched",
		zap.String("contract", q.Contract),
		zap.String("table", q.Table),
		zap.String("lower_bound", q.LowerBound),
		zap.Int("rows", len(rows)))

	return rows, nil
}

func tableRowsRequest(q ledger.TableQuery) eos.GetTableRowsRequest {
	return eos.GetTableRowsRequest{
		Code:       q.Contract,
		Scope:      q.Scope,
		Table:      q.Table,
		LowerBound: q.LowerBound,
		UpperBound: q.UpperBound,
		Limit:      q.Limit,
		Index:      q.IndexPosition,
		KeyType:    q.KeyType,
		Reverse:    q.Reverse,
		JSON:       true,
	}
}

// Submit implements ledger.Submitter. All operations go into one signed transaction.
func (c *EosioClient) Submit(ctx context.Context, ops []domain.Operation, opts ledger.SubmitOptions) (*ledger.SubmitResult, error) {
	if len(ops) == 0 {
		return nil, errors.New("no operations to submit")
	}
	if opts.Expiry <= 0 {
		opts.Expiry = ledger.DefaultExpiry
	}

	actions := make([]*eos.Action, 0, len(ops))
	for i, op := range ops {
		action, err := c.toAction(ctx, op)
		if err != nil {
			return nil, errors.Wrapf(err, "operation %d (%s)", i, op.Kind)
		}
		actions = append(actions, action)
	}

	info, err := c.api.GetInfo(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get chain info")
	}

	tx := eos.NewTransaction(actions, &eos.TxOptions{
		ChainID:     info.ChainID,
		HeadBlockID: referenceBlock(info, opts.Finality),
	})
	tx.SetExpiration(opts.Expiry)

	_, packed, err := c.api.SignTransaction(ctx, tx, info.ChainID, eos.CompressionNone)
	if err != nil {
		return nil, errors.Wrap(err, "sign transaction")
	}

	resp, err := c.api.PushTransaction(ctx, packed)
	if err != nil {
		return nil, errors.Wrap(err, "push transaction")
	}

	c.logger.Info("transaction pushed",
		zap.String("tx_id", resp.TransactionID),
		zap.Int("actions", len(actions)),
		zap.String("finality", string(opts.Finality)))

	return &ledger.SubmitResult{TransactionID: resp.TransactionID}, nil
}

// referenceBlock block the transaction is bound to for TaPoS.
func referenceBlock(info *eos.InfoResp, finality ledger.FinalityMode) eos.Checksum256 {
	if finality == ledger.FinalityHead {
		return info.HeadBlockID
	}
	return info.LastIrreversibleBlockID
}

func (c *EosioClient) toAction(ctx context.Context, op domain.Operation) (*eos.Action, error) {
	payload, err := json.Marshal(op.Data)
	if err != nil {
		return nil, errors.Wrap(err, "marshal action data")
	}

	abi, err := c.contractABI(ctx, op.Contract)
	if err != nil {
		return nil, err
	}

	packed, err := abi.EncodeAction(eos.ActN(op.Name), payload)
	if err != nil {
		return nil, errors.Wrapf(err, "encode %s::%s", op.Contract, op.Name)
	}

	return &eos.Action{
		Account:       eos.AN(op.Contract),
		Name:          eos.ActN(op.Name),
		Authorization: permissionLevels(op.Authorization),
		ActionData:    eos.ActionData{HexData: packed},
	}, nil
}

func permissionLevels(perms []domain.Permission) []eos.PermissionLevel {
	levels := make([]eos.PermissionLevel, 0, len(perms))
	for _, p := range perms {
		levels = append(levels, eos.PermissionLevel{Actor: eos.AN(p.Actor), Permission: eos.PN(p.Permission)})
	}
	return levels
}

// contractABI returns the contract ABI, fetching it once per client.
func (c *EosioClient) contractABI(ctx context.Context, contract string) (*eos.ABI, error) {
	c.abiMu.Lock()
	defer c.abiMu.Unlock()

	if abi, ok := c.abis[contract]; ok {
		return abi, nil
	}

	resp, err := c.api.GetABI(ctx, eos.AN(contract))
	if err != nil {
		return nil, errors.Wrapf(err, "get abi of %s", contract)
	}

	abi := resp.ABI
	c.abis[contract] = &abi
	return &abi, nil
}
