package chain

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultPollInterval = 2 * time.Second

// Backend is the subset of RPCClient a wallet needs.
type Backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, address common.Address) (*big.Int, error)
	PendingNonceAt(ctx context.Context, address common.Address) (uint64, error)
	LatestHeader(ctx context.Context) (*types.Header, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error)
}

type wallet struct {
	backend      Backend
	key          *ecdsa.PrivateKey
	from         common.Address
	chainID      *big.Int
	pollInterval time.Duration
}

// Options tunes a wallet client.
type Options struct {
	// ChainID skips the eth_chainId query when non-zero.
	ChainID int64
	// PollInterval is the receipt polling period.
	PollInterval time.Duration
}

// NewClient binds key to backend.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewClient(ctx context.Context, backend Backend, key *ecdsa.PrivateKey, opts Options) (Client, error) {
	if key == nil {
		return nil, ErrNoCredential
	}

	chainID := big.NewInt(opts.ChainID)
	if opts.ChainID == 0 {
		var err error
		chainID, err = backend.ChainID(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve chain ID")
		}
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &wallet{
		backend:      backend,
		key:          key,
		from:         crypto.PubkeyToAddress(key.PublicKey),
		chainID:      chainID,
		pollInterval: pollInterval,
	}, nil
}

func (w *wallet) Address() common.Address {
	return w.from
}

func (w *wallet) Balance(ctx context.Context) (*big.Int, error) {
	return w.backend.BalanceAt(ctx, w.from)
}

func (w *wallet) TokenBalance(ctx context.Context, token common.Address) (*big.Int, error) {
	data, err := packBalanceOf(w.from)
	if err != nil {
		return nil, err
	}

	resp, err := w.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data})
	if err != nil {
		return nil, errors.Wrap(err, "failed to call balanceOf")
	}

	return unpackBalanceOf(resp)
}

func (w *wallet) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	resp, err := w.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: packDecimals()})
	if err != nil {
		return 0, errors.Wrap(err, "failed to call decimals")
	}

	return unpackDecimals(resp)
}

// SuggestFees collects the base fee, the priority fee and the legacy gas
// price. Only the header query is mandatory; missing suggestions stay nil.
func (w *wallet) SuggestFees(ctx context.Context) (*FeeSuggestion, error) {
	header, err := w.backend.LatestHeader(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest header")
	}

	suggestion := &FeeSuggestion{BaseFee: header.BaseFee}

	if header.BaseFee != nil {
		tip, err := w.backend.SuggestGasTipCap(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("Node did not report a priority fee")
		} else {
			suggestion.GasTipCap = tip
		}
	}

	price, err := w.backend.SuggestGasPrice(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Node did not report a gas price")
	} else {
		suggestion.GasPrice = price
	}

	return suggestion, nil
}

func (w *wallet) Submit(ctx context.Context, req *TxRequest) (*types.Transaction, error) {
	nonce, err := w.backend.PendingNonceAt(ctx, w.from)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pending nonce")
	}

	signedTx, err := signTransaction(req, nonce, w.chainID, w.key)
	if err != nil {
		return nil, err
	}

	if err := w.backend.SendTransaction(ctx, signedTx); err != nil {
		return nil, errors.Wrap(err, "failed to send transaction")
	}

	log.Debug().
		Str("tx_hash", signedTx.Hash().Hex()).
		Str("to", req.To.Hex()).
		Uint64("nonce", nonce).
		Msg("Transaction broadcast")

	return signedTx, nil
}

func (w *wallet) WaitConfirmation(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := w.backend.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}

		if !errors.Is(err, ethereum.NotFound) {
			return nil, errors.Wrap(err, "failed to get transaction receipt")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
