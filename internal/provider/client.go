// internal/provider/client.go
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	defaultTimeout = 10 * time.Second
	defaultRetries = 3
)

// ErrNotFound сигнализирует, что у провайдера нет данных по запросу.
// Вызывающая сторона трактует это как пустой результат, а не как сбой.
var ErrNotFound = fmt.Errorf("provider: not found")

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getJSON выполняет GET-запрос с ограниченным числом повторов.
// Повторяем только rate-limit (429) и 5xx; остальные статусы фатальны
// для данного запроса.
func getJSON(ctx context.Context, client *http.Client, logger *zap.Logger, url string, out any) error {
	return doJSON(ctx, client, logger, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	}, out, defaultRetries)
}

func doJSON(ctx context.Context, client *http.Client, logger *zap.Logger, build func() (*http.Request, error), out any, retries int) error {
	operation := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			logger.Debug("provider request failed, retrying", zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			// fallthrough to decode
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(ErrNotFound)
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			// Дренируем тело, чтобы соединение вернулось в пул.
			_, _ = io.Copy(io.Discard, resp.Body)
			logger.Debug("provider rate-limited or unavailable, retrying",
				zap.Int("status", resp.StatusCode))
			return fmt.Errorf("provider returned status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("provider returned status %d", resp.StatusCode))
		}

		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	}

	bo := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(retries))
	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}
