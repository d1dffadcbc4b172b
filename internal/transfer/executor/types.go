package executor

import (
	"strings"
	"time"

	"github.com/batchsend/batchsend/internal/transfer/amount"
	"github.com/batchsend/batchsend/internal/transfer/fee"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var (
	// ErrTransferFailed wraps every per-recipient failure. It never aborts
	// the batch.
	ErrTransferFailed      = errors.New("transfer failed")
	ErrConfirmationTimeout = errors.New("timed out waiting for confirmation")
	ErrTransferReverted    = errors.New("transaction reverted")
	ErrNonPositiveAmount   = errors.New("amount must be positive")
	ErrAmountOverflow      = errors.New("amount does not fit in uint256")
	ErrUnknownKind         = errors.New("unknown transfer kind")
)

// Kind is what a batch moves.
type Kind string

const (
	KindNative Kind = "native"
	KindToken  Kind = "token"
)

// ParseKind maps the operator's answer. "erc20" and "erc-20" select
// tokens as well; anything else is rejected.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(KindNative):
		return KindNative, nil
	case string(KindToken), "erc20", "erc-20":
		return KindToken, nil
	default:
		return "", errors.Wrapf(ErrUnknownKind, "%q", s)
	}
}

// State is the lifecycle position of a single recipient's transfer.
type State int

const (
	StatePending State = iota
	StateSubmitted
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSubmitted:
		return "submitted"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Job is the read-only description of a batch, fixed before the first
// transfer.
type Job struct {
	Kind     Kind
	Token    common.Address
	Symbol   string
	Decimals int32
	GasLimit uint64
	Fees     fee.Params
}

// AmountSource yields one amount per recipient.
type AmountSource interface {
	Next() (amount.Amount, error)
}

// Config holds the executor's timing knobs.
type Config struct {
	// ConfirmTimeout bounds the wait for a receipt. Zero waits until the
	// parent context is done.
	ConfirmTimeout time.Duration
	// PaceInterval is slept after each successful transfer except the last.
	PaceInterval time.Duration
}

// Summary counts the outcome of a batch for the final console line.
type Summary struct {
	Total       int
	Attempted   int
	Confirmed   int
	Failed      int
	Interrupted bool
}

// TransferError is a recipient's failure together with the state the
// transfer had reached. It matches both ErrTransferFailed and the cause.
type TransferError struct {
	Stage State
	Err   error
}

func fail(stage State, err error) *TransferError {
	return &TransferError{Stage: stage, Err: err}
}

func (e *TransferError) Error() string {
	return e.Err.Error()
}

func (e *TransferError) Unwrap() []error {
	return []error{ErrTransferFailed, e.Err}
}
