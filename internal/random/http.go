package random

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// maxBodyBytes bounds the plain-text response read from the upstream service.
const maxBodyBytes = 64

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPSource draws from a plain-text decimal fraction endpoint such as
// random.org's decimal-fractions API. The body must be a single number in [0, 1).
type HTTPSource struct {
	client httpDoer
	url    string
}

// NewHTTPSource returns a source that issues one GET to url per draw.
//
// Precondition: url must be non-empty; a nil client uses http.DefaultClient.
func NewHTTPSource(url string, client *http.Client) *HTTPSource {
	var doer httpDoer = http.DefaultClient
	if client != nil {
		doer = client
	}
	return &HTTPSource{client: doer, url: url}
}

// Float64 fetches and parses one fraction. Transport failures, non-200
// responses, unparsable bodies and out-of-range values all wrap ErrUnavailable.
func (h *HTTPSource) Float64(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: building request: %v", ErrUnavailable, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: requesting %s: %v", ErrUnavailable, h.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: %s returned status %d", ErrUnavailable, h.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, fmt.Errorf("%w: reading body: %v", ErrUnavailable, err)
	}

	text := strings.TrimSpace(string(body))
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid response %q", ErrUnavailable, text)
	}
	if v < 0 || v >= 1 {
		return 0, fmt.Errorf("%w: value %v outside [0, 1)", ErrUnavailable, v)
	}
	return v, nil
}
