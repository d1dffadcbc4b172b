package session

import (
	"math/rand/v2"
	"time"

	"github.com/batchsend/batchsend/internal/console"
	"github.com/batchsend/batchsend/internal/prompt"
	"github.com/batchsend/batchsend/internal/transfer/address"
	"github.com/batchsend/batchsend/internal/transfer/amount"
	"github.com/batchsend/batchsend/internal/transfer/chain"
	"github.com/batchsend/batchsend/internal/transfer/executor"
	"github.com/batchsend/batchsend/internal/transfer/fee"
	"github.com/batchsend/batchsend/internal/transfer/report"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

const (
	defaultGasLimit    = 100000
	defaultDecimals    = 18
	maxTokenDecimals   = 77
	nativeSymbol       = "native token"
	defaultTokenSymbol = "tokens"
)

// ErrInvalidInput marks an operator answer that cannot be parsed. It is
// raised before the first transfer and ends the session.
var ErrInvalidInput = errors.New("invalid input")

// Deps are the collaborators of a session. All of them are required except
// Rand, which defaults to a randomly seeded generator.
type Deps struct {
	Client    chain.Client
	Addresses address.Service
	Prompt    prompt.Provider
	Console   *console.Console
	Rand      *rand.Rand
}

// Options tune a session run.
type Options struct {
	ConfirmTimeout time.Duration
	PaceInterval   time.Duration
	// AssumeYes skips the final "proceed?" question.
	AssumeYes bool
}

// BatchConfig is everything the operator chose. It is immutable once the
// transfers start.
type BatchConfig struct {
	Kind     executor.Kind
	Token    common.Address
	Symbol   string
	Decimals int32
	Count    int
	Amounts  amount.Params
	GasLimit uint64
	Fee      fee.Request
}

// Result is what a completed session reports back to the command.
type Result struct {
	BatchID  string
	Config   BatchConfig
	Selected []string
	Fees     fee.Params
	Summary  executor.Summary
	Spend    report.Spend
}
