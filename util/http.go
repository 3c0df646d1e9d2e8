package util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

var httpSession = &http.Client{
	Timeout: 60 * time.Second,
}

func GetHTTPSession() *http.Client {
	return httpSession
}

// FetchBytes downloads a resource fully into memory.
func FetchBytes(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := httpSession.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", res.StatusCode, url)
	}
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

// RemoteSize probes the declared size of a resource with a header-only request.
func RemoteSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := httpSession.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()
	if res.ContentLength < 0 {
		return 0, fmt.Errorf("no content length declared for %s", url)
	}
	return res.ContentLength, nil
}
