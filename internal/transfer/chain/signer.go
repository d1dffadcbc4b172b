package chain

import (
	"crypto/ecdsa"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// signTransaction builds a legacy or EIP-1559 transaction from req and signs
// it for chainID.
func signTransaction(req *TxRequest, nonce uint64, chainID *big.Int, key *ecdsa.PrivateKey) (*types.Transaction, error) {
	value := req.Value
	if value == nil {
		value = new(big.Int)
	}

	var txData types.TxData
	if req.IsLegacy() {
		txData = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: req.GasPrice,
			Gas:      req.GasLimit,
			To:       &req.To,
			Value:    value,
			Data:     req.Data,
		}
	} else {
		if req.GasTipCap == nil || req.GasFeeCap == nil {
			return nil, errors.New("fee caps are required for a dynamic fee transaction")
		}

		txData = &types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: req.GasTipCap,
			GasFeeCap: req.GasFeeCap,
			Gas:       req.GasLimit,
			To:        &req.To,
			Value:     value,
			Data:      req.Data,
		}
	}

	//nolint:varnamelen // tx is a common abbreviation for transaction
	tx := types.NewTx(txData)

	signedTx, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign transaction")
	}

	return signedTx, nil
}
