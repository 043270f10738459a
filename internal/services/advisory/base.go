package advisory

import (
	"context"
	"fmt"
	"strings"
	"time"

	xhttp "ForecastAI/pkg/http"
)

// HTTPServiceBase holds the outbound client and base URL shared by the providers.
// Every call is a single attempt.
type HTTPServiceBase struct {
	baseURL string
	headers map[string]string
	client  *xhttp.Client
}

// NewHTTPServiceBase builds a client with the given timeout against baseURL.
func NewHTTPServiceBase(baseURL string, timeout time.Duration, headers map[string]string) *HTTPServiceBase {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPServiceBase{
		baseURL: strings.TrimRight(baseURL, "/"),
		headers: headers,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// PostJSON posts payload to path under baseURL and decodes the JSON response into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("advisory http client not initialized")
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range b.headers {
		headers[k] = v
	}

	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:  xhttp.MethodPost,
		URL:     b.baseURL + path,
		Headers: headers,
		Body:    payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}
