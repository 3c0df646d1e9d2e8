package poster

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"reddigram/bot"
	"reddigram/enums"
	"reddigram/models"
	"reddigram/util"
)

// Source fetches and parses reddit posts.
type Source interface {
	SubredditPosts(ctx context.Context, subreddits []string, limit int, sort enums.SortMode) ([]gjson.Result, error)
	ParseSubmission(ctx context.Context, raw gjson.Result) (*models.Submission, error)
}

// Telegram delivers submissions and owner notifications.
type Telegram interface {
	SendSubmission(ctx context.Context, chatID int64, sub *models.Submission, opts *bot.SendOptions) error
	Notify(chatID int64, text string) error
}

// Store remembers which posts were already delivered to which chat.
type Store interface {
	Contains(chat int64, postID string) (bool, error)
	Append(chat int64, postID string) error
}

// Runner drives the fetch-parse-deliver cycle for a set of posters.
type Runner struct {
	Reddit  Source
	Sender  Telegram
	Store   Store
	Posters []*models.Poster
	OwnerID int64
	Delay   time.Duration
}

// Start runs one cycle immediately, then one per interval until the
// context is cancelled.
func (r *Runner) Start(ctx context.Context, interval time.Duration) {
	r.RunCycle(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunCycle(ctx)
		}
	}
}

// RunCycle walks every poster once. A failing post is reported to the
// owner and never aborts the rest of the batch.
func (r *Runner) RunCycle(ctx context.Context) {
	for _, poster := range r.Posters {
		if ctx.Err() != nil {
			return
		}
		posts, err := r.Reddit.SubredditPosts(ctx, poster.Subreddits, poster.Limit, poster.SortBy)
		if err != nil {
			zap.S().Errorf("failed to fetch listing for chat %d: %v", poster.Chat, err)
			continue
		}
		for _, raw := range posts {
			if ctx.Err() != nil {
				return
			}
			id := raw.Get("id").String()
			posted, err := r.processPost(ctx, poster, id, raw)
			if err != nil {
				zap.S().Errorf("err in post %s: %v", id, err)
				r.notifyOwner(id, err)
				continue
			}
			if posted {
				r.sleep(ctx)
			}
		}
	}
}

func (r *Runner) processPost(
	ctx context.Context,
	poster *models.Poster,
	id string,
	raw gjson.Result,
) (bool, error) {
	seen, err := r.Store.Contains(poster.Chat, id)
	if err != nil {
		return false, fmt.Errorf("failed to check sent posts: %w", err)
	}
	if seen {
		return false, nil
	}
	sub, err := r.Reddit.ParseSubmission(ctx, raw)
	if err != nil {
		return false, err
	}
	if !poster.ShouldPost(sub) {
		zap.S().Debugf("post %s filtered out for chat %d", id, poster.Chat)
		return false, nil
	}
	opts := &bot.SendOptions{
		Hidden:   poster.ShouldHide(sub),
		NSFWMark: poster.ShowNSFWMark(sub),
		Extra:    poster.ExtraText,
	}
	if err := r.Sender.SendSubmission(ctx, poster.Chat, sub, opts); err != nil {
		return false, err
	}
	if err := r.Store.Append(poster.Chat, id); err != nil {
		return true, fmt.Errorf("failed to record sent post: %w", err)
	}
	zap.S().Infof("posted %s to chat %d", id, poster.Chat)
	return true, nil
}

func (r *Runner) notifyOwner(id string, err error) {
	if r.OwnerID == 0 {
		return
	}
	text := fmt.Sprintf("err in post %s: %v", id, util.GetLastError(err))
	if notifyErr := r.Sender.Notify(r.OwnerID, text); notifyErr != nil {
		zap.S().Errorf("failed to notify owner: %v", notifyErr)
	}
}

func (r *Runner) sleep(ctx context.Context) {
	if r.Delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(r.Delay):
	}
}
