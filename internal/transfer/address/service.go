package address

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const maxDocumentSize = 32 << 20

type service struct {
	location   string
	httpClient *http.Client
}

// NewService returns a Service reading the CSV document at location, which
// is an http(s) URL, a file:// URL or a plain filesystem path.
//
//nolint:ireturn // Returning interface is intentional for dependency injection
func NewService(location string, timeout time.Duration) Service {
	return &service{
		location:   location,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *service) Fetch(ctx context.Context) ([]string, error) {
	body, err := s.open(ctx)
	if err != nil {
		return nil, errors.Wrap(ErrSourceUnavailable, err.Error())
	}
	defer body.Close()

	addresses, err := ParseCSV(io.LimitReader(body, maxDocumentSize))
	if err != nil {
		return nil, errors.Wrap(ErrSourceUnavailable, err.Error())
	}

	log.Debug().
		Str("source", redactQuery(s.location)).
		Int("count", len(addresses)).
		Msg("Fetched recipient addresses")

	return addresses, nil
}

func (s *service) open(ctx context.Context) (io.ReadCloser, error) {
	u, err := url.Parse(s.location)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		path := s.location
		if err == nil && u.Scheme == "file" {
			path = u.Path
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open address file")
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to download address document")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		resp.Body.Close()
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	return resp.Body, nil
}

func redactQuery(location string) string {
	if i := strings.IndexByte(location, '?'); i >= 0 {
		return location[:i]
	}
	return location
}
