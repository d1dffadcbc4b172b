package chain

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

var (
	ErrNoCredential   = errors.New("no wallet credential configured")
	ErrInvalidAddress = errors.New("invalid address")
)

// Client is the network capability a batch needs: one signing wallet bound
// to one chain.
type Client interface {
	// Address is the sender of every submitted transaction.
	Address() common.Address

	// Balance returns the wallet's native balance at the latest block.
	Balance(ctx context.Context) (*big.Int, error)

	// TokenBalance returns the wallet's ERC20 balance of token.
	TokenBalance(ctx context.Context, token common.Address) (*big.Int, error)

	// TokenDecimals reads decimals() of an ERC20 contract.
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)

	// SuggestFees returns the network's current fee estimates.
	SuggestFees(ctx context.Context) (*FeeSuggestion, error)

	// Submit assigns the pending nonce, signs req locally and broadcasts it.
	Submit(ctx context.Context, req *TxRequest) (*types.Transaction, error)

	// WaitConfirmation polls until the transaction has a receipt, the
	// network call fails or ctx is done.
	WaitConfirmation(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// FeeSuggestion carries whatever the network reported. Each field is nil
// when the node did not provide it (e.g. BaseFee on pre-London chains).
type FeeSuggestion struct {
	BaseFee   *big.Int
	GasTipCap *big.Int
	GasPrice  *big.Int
}

// TxRequest describes an unsigned transaction. A non-nil GasPrice selects a
// legacy transaction, otherwise GasTipCap and GasFeeCap build an EIP-1559 one.
type TxRequest struct {
	To       common.Address
	Value    *big.Int
	Data     []byte
	GasLimit uint64

	GasTipCap *big.Int
	GasFeeCap *big.Int
	GasPrice  *big.Int
}

// IsLegacy reports whether req uses the flat gas price model.
func (r *TxRequest) IsLegacy() bool {
	return r.GasPrice != nil
}

// ParseAddress accepts a 0x-prefixed hex address and rejects anything else.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.Wrapf(ErrInvalidAddress, "%q", s)
	}
	return common.HexToAddress(s), nil
}
