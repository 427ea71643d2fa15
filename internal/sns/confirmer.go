package sns

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrUntrustedURL is returned when a subscription URL does not point at SNS.
var ErrUntrustedURL = errors.New("sns: untrusted subscribe url")

// Confirmer completes the subscription handshake by visiting SubscribeURL.
type Confirmer struct {
	client  Doer
	timeout time.Duration
}

func NewConfirmer(client Doer, timeout time.Duration) *Confirmer {
	return &Confirmer{client: client, timeout: timeout}
}

// Confirm issues a GET to subscribeURL and succeeds on any 2xx response.
func (c *Confirmer) Confirm(ctx context.Context, subscribeURL string) error {
	if !TrustedURL(subscribeURL) {
		return fmt.Errorf("%w: %q", ErrUntrustedURL, subscribeURL)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, subscribeURL, nil)
	if err != nil {
		return fmt.Errorf("build confirmation request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("confirm subscription: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("confirm subscription: unexpected status %d", resp.StatusCode)
	}
	return nil
}
