// Package bot wraps the telegram transport and delivers submissions.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Client decorates the gotgbot transport: outgoing sends get HTML parse
// mode, and rate-limited calls are retried with the server-provided
// backoff until they go through. Callers never see a 429.
type Client struct {
	gotgbot.BotClient
}

const defaultRetryAfter = 5 * time.Second

func (c Client) RequestWithContext(
	ctx context.Context,
	token string,
	method string,
	params map[string]string,
	data map[string]gotgbot.FileReader,
	opts *gotgbot.RequestOpts,
) (json.RawMessage, error) {
	if strings.HasPrefix(method, "send") || strings.HasPrefix(method, "edit") {
		if params["parse_mode"] == "" {
			params["parse_mode"] = gotgbot.ParseModeHTML
		}
	}
	// upload readers are drained on the first attempt, so buffer them
	// up front and hand out fresh readers on every retry
	var files map[string][]byte
	for key, reader := range data {
		if reader.Data == nil {
			continue
		}
		buf, err := io.ReadAll(reader.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to buffer upload %s: %w", key, err)
		}
		if files == nil {
			files = make(map[string][]byte, len(data))
		}
		files[key] = buf
	}
	for {
		attempt := data
		if files != nil {
			attempt = make(map[string]gotgbot.FileReader, len(data))
			for key, reader := range data {
				attempt[key] = reader
			}
			for key, buf := range files {
				attempt[key] = gotgbot.FileReader{
					Name: data[key].Name,
					Data: bytes.NewReader(buf),
				}
			}
		}
		val, err := c.BotClient.RequestWithContext(ctx, token, method, params, attempt, opts)
		if err == nil {
			return val, nil
		}
		var tgErr *gotgbot.TelegramError
		if !errors.As(err, &tgErr) || tgErr.Code != http.StatusTooManyRequests {
			return nil, err
		}
		wait := defaultRetryAfter
		if tgErr.ResponseParams != nil && tgErr.ResponseParams.RetryAfter > 0 {
			wait = time.Duration(tgErr.ResponseParams.RetryAfter) * time.Second
		}
		zap.S().Warnf("rate limited on %s, retrying in %s", method, wait)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func NewClient() Client {
	return Client{
		BotClient: &gotgbot.BaseBotClient{
			Client: http.Client{},
			DefaultRequestOpts: &gotgbot.RequestOpts{
				Timeout: 5 * time.Minute,
			},
		},
	}
}

func NewBot(token string) (*gotgbot.Bot, error) {
	return gotgbot.NewBot(token, &gotgbot.BotOpts{
		BotClient: NewClient(),
	})
}
