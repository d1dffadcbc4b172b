package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const erc20ABIJSON = `[
	{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"}
]`

var erc20ABI = mustParseABI(erc20ABIJSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// PackTransfer encodes transfer(to, amount) calldata.
func PackTransfer(to common.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20ABI.Pack("transfer", to, amount)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack transfer call")
	}
	return data, nil
}

// TokenTransferRequest builds the token-contract invocation moving amount of
// token to recipient. The transaction carries no native value.
func TokenTransferRequest(token, recipient common.Address, amount *big.Int, gasLimit uint64) (*TxRequest, error) {
	data, err := PackTransfer(recipient, amount)
	if err != nil {
		return nil, err
	}

	return &TxRequest{
		To:       token,
		Value:    new(big.Int),
		Data:     data,
		GasLimit: gasLimit,
	}, nil
}

// NativeTransferRequest builds a plain value transfer.
func NativeTransferRequest(recipient common.Address, amount *big.Int, gasLimit uint64) *TxRequest {
	return &TxRequest{
		To:       recipient,
		Value:    new(big.Int).Set(amount),
		GasLimit: gasLimit,
	}
}

func packBalanceOf(owner common.Address) ([]byte, error) {
	data, err := erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack balanceOf call")
	}
	return data, nil
}

func unpackBalanceOf(resp []byte) (*big.Int, error) {
	if len(resp) == 0 {
		return nil, errors.New("empty balanceOf response, is the address a token contract?")
	}

	out, err := erc20ABI.Unpack("balanceOf", resp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unpack balanceOf")
	}

	balance, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("unexpected balanceOf return type")
	}

	return balance, nil
}

func packDecimals() []byte {
	return erc20ABI.Methods["decimals"].ID
}

func unpackDecimals(resp []byte) (uint8, error) {
	if len(resp) == 0 {
		return 0, errors.New("empty decimals response, is the address a token contract?")
	}

	out, err := erc20ABI.Unpack("decimals", resp)
	if err != nil {
		return 0, errors.Wrap(err, "failed to unpack decimals")
	}

	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, errors.New("unexpected decimals return type")
	}

	return decimals, nil
}
