package address

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const addressColumn = 1

// ParseCSV extracts the address column from a CSV document. The first row is
// a header. Rows without a second column, or with a blank one, are skipped;
// the address itself is not validated.
func ParseCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	var (
		addresses []string
		header    = true
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse address csv")
		}

		if header {
			header = false
			continue
		}

		if len(record) <= addressColumn {
			continue
		}

		if addr := strings.TrimSpace(record[addressColumn]); addr != "" {
			addresses = append(addresses, addr)
		}
	}

	return addresses, nil
}
