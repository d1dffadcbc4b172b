package address

import (
	"context"

	"github.com/pkg/errors"
)

// ErrSourceUnavailable is returned when the address document cannot be
// retrieved. It is fatal for a batch: no transfer is attempted.
var ErrSourceUnavailable = errors.New("address source unavailable")

// Service supplies the ordered recipient list of a batch.
type Service interface {
	// Fetch retrieves the document and returns the addresses in row order.
	Fetch(ctx context.Context) ([]string, error)
}
