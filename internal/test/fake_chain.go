package test

import (
	"context"
	"math/big"
	"sync"

	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// FakeChain is an in-memory chain.Client. Submitted native transfers move
// balance immediately and charge gasLimit * fee cap; token transfers move
// token balance and charge the same fee.
type FakeChain struct {
	mu sync.Mutex

	From          common.Address
	NativeBalance *big.Int
	Tokens        map[common.Address]*big.Int
	Decimals      map[common.Address]uint8
	Fees          chain.FeeSuggestion

	// FailSubmit makes Submit fail for these recipients.
	FailSubmit map[common.Address]error
	// RevertFor mines a failed receipt for these recipients.
	RevertFor map[common.Address]bool
	// BlockWait makes WaitConfirmation block until ctx is done.
	BlockWait bool

	Submitted []*chain.TxRequest
	nonce     uint64
	block     int64
	recipient map[common.Hash]common.Address
}

var errFakeNotMined = errors.New("unknown transaction")

// NewFakeChain returns a fake wallet holding balance wei.
func NewFakeChain(balance *big.Int) *FakeChain {
	key, _ := crypto.GenerateKey()

	return &FakeChain{
		From:          crypto.PubkeyToAddress(key.PublicKey),
		NativeBalance: new(big.Int).Set(balance),
		Tokens:        map[common.Address]*big.Int{},
		Decimals:      map[common.Address]uint8{},
		FailSubmit:    map[common.Address]error{},
		RevertFor:     map[common.Address]bool{},
		block:         1000,
		recipient:     map[common.Hash]common.Address{},
	}
}

func (f *FakeChain) Address() common.Address {
	return f.From
}

func (f *FakeChain) Balance(context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return new(big.Int).Set(f.NativeBalance), nil
}

func (f *FakeChain) TokenBalance(_ context.Context, token common.Address) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if b, ok := f.Tokens[token]; ok {
		return new(big.Int).Set(b), nil
	}
	return new(big.Int), nil
}

func (f *FakeChain) TokenDecimals(_ context.Context, token common.Address) (uint8, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	d, ok := f.Decimals[token]
	if !ok {
		return 0, errors.New("execution reverted")
	}
	return d, nil
}

func (f *FakeChain) SuggestFees(context.Context) (*chain.FeeSuggestion, error) {
	fees := f.Fees
	return &fees, nil
}

func (f *FakeChain) Submit(_ context.Context, req *chain.TxRequest) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recipient := req.To
	var tokenAmount *big.Int
	if len(req.Data) > 0 {
		var err error
		recipient, tokenAmount, err = decodeTransfer(req.Data)
		if err != nil {
			return nil, err
		}
	}

	if err, ok := f.FailSubmit[recipient]; ok {
		return nil, err
	}

	f.Submitted = append(f.Submitted, req)

	perGas := req.GasFeeCap
	if req.IsLegacy() {
		perGas = req.GasPrice
	}
	cost := new(big.Int).Mul(perGas, new(big.Int).SetUint64(req.GasLimit))
	f.NativeBalance.Sub(f.NativeBalance, cost)

	if tokenAmount != nil {
		bal, ok := f.Tokens[req.To]
		if !ok {
			bal = new(big.Int)
			f.Tokens[req.To] = bal
		}
		bal.Sub(bal, tokenAmount)
	} else if req.Value != nil {
		f.NativeBalance.Sub(f.NativeBalance, req.Value)
	}

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    f.nonce,
		To:       &req.To,
		Value:    req.Value,
		Gas:      req.GasLimit,
		GasPrice: perGas,
		Data:     req.Data,
	})
	f.nonce++
	f.recipient[tx.Hash()] = recipient

	return tx, nil
}

func (f *FakeChain) WaitConfirmation(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if f.BlockWait {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	recipient, ok := f.recipient[hash]
	if !ok {
		return nil, errFakeNotMined
	}

	f.block++
	status := types.ReceiptStatusSuccessful
	if f.RevertFor[recipient] {
		status = types.ReceiptStatusFailed
	}

	return &types.Receipt{
		TxHash:      hash,
		Status:      status,
		BlockNumber: big.NewInt(f.block),
	}, nil
}

// Recipients returns the transfer recipient of every accepted submission,
// decoding token calldata.
func (f *FakeChain) Recipients() []common.Address {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]common.Address, 0, len(f.Submitted))
	for _, req := range f.Submitted {
		if len(req.Data) > 0 {
			to, _, _ := decodeTransfer(req.Data)
			out = append(out, to)
			continue
		}
		out = append(out, req.To)
	}
	return out
}

// decodeTransfer reads transfer(address,uint256) calldata.
func decodeTransfer(data []byte) (common.Address, *big.Int, error) {
	const selectorLen, wordLen = 4, 32
	if len(data) != selectorLen+2*wordLen {
		return common.Address{}, nil, errors.New("unexpected calldata length")
	}

	to := common.BytesToAddress(data[selectorLen : selectorLen+wordLen])
	value := new(big.Int).SetBytes(data[selectorLen+wordLen:])

	return to, value, nil
}
