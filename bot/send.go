package bot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"reddigram/markup"
	"reddigram/models"
	"reddigram/util"
)

const (
	maxGalleryBatch    = 10
	maxDirectFetchSize = 50_000_000
)

// Bad Request reasons meaning telegram could not use this particular
// media candidate; any other rejection is fatal.
var retryableReasons = []string{
	"wrong file identifier/http url specified",
	"wrong type of the web page content",
	"failed to get http url content",
	"photo_invalid_dimensions",
}

var partialGroupFailureRE = regexp.MustCompile(`(?i)failed to send message #\d+ with the error message`)

// SendOptions carries the display policy a Poster resolved for one channel.
type SendOptions struct {
	Hidden   bool
	NSFWMark bool
	Extra    string
}

// Sender delivers parsed submissions to telegram chats.
type Sender struct {
	Bot *gotgbot.Bot
}

// SendSubmission picks the send operation for the submission's media kind
// and runs its fallback ladder.
func (s *Sender) SendSubmission(
	ctx context.Context,
	chatID int64,
	sub *models.Submission,
	opts *SendOptions,
) error {
	if opts == nil {
		opts = &SendOptions{}
	}
	switch media := sub.Media.(type) {
	case nil:
		return s.sendText(chatID, sub, opts)
	case *models.Image:
		return s.sendImage(ctx, chatID, sub, media, opts)
	case *models.Video:
		return s.sendVideo(ctx, chatID, sub, media, opts)
	case *models.Gif:
		return s.sendGif(ctx, chatID, sub, media, opts)
	case *models.Gallery:
		return s.sendGallery(ctx, chatID, sub, media, opts)
	default:
		return fmt.Errorf("unknown media kind: %s", sub.Media.Kind())
	}
}

// Notify sends a plain service message, used for owner error reports.
func (s *Sender) Notify(chatID int64, text string) error {
	_, err := s.Bot.SendMessage(chatID, markup.Escape(text), nil)
	return err
}

func (s *Sender) sendText(chatID int64, sub *models.Submission, opts *SendOptions) error {
	text := markup.Caption(sub, &markup.CaptionOpts{
		Hidden:   opts.Hidden,
		NSFWMark: opts.NSFWMark,
		Extra:    opts.Extra,
	})
	chunks := markup.RepairChunks(markup.Split(text, markup.MaxMessageLength))
	for _, chunk := range chunks {
		if _, err := s.Bot.SendMessage(chatID, chunk, nil); err != nil {
			return fmt.Errorf("failed to send text message: %w", err)
		}
	}
	return nil
}

func (s *Sender) shortCaption(sub *models.Submission, opts *SendOptions) string {
	return markup.Caption(sub, &markup.CaptionOpts{
		Short:    true,
		Hidden:   opts.Hidden,
		NSFWMark: opts.NSFWMark,
		Extra:    opts.Extra,
	})
}

func (s *Sender) sendImage(
	ctx context.Context,
	chatID int64,
	sub *models.Submission,
	image *models.Image,
	opts *SendOptions,
) error {
	caption := s.shortCaption(sub, opts)
	sent, err := s.sendLadder(ctx, image.Sources, func(media gotgbot.InputFileOrString) error {
		_, err := s.Bot.SendPhoto(chatID, media, &gotgbot.SendPhotoOpts{
			Caption:               caption,
			ShowCaptionAboveMedia: true,
			HasSpoiler:            opts.Hidden,
		})
		return err
	})
	if err != nil {
		return err
	}
	if !sent {
		zap.S().Warnf("no image candidate accepted for post %s, sending it as a link", sub.ID)
		sub.DowngradeToText(image.Sources[0].URL)
		return s.sendText(chatID, sub, opts)
	}
	return nil
}

func (s *Sender) sendVideo(
	ctx context.Context,
	chatID int64,
	sub *models.Submission,
	video *models.Video,
	opts *SendOptions,
) error {
	caption := s.shortCaption(sub, opts)
	thumbnail := s.thumbnail(ctx, video.Thumbnail)
	sent, err := s.sendLadder(ctx, video.Sources, func(media gotgbot.InputFileOrString) error {
		_, err := s.Bot.SendVideo(chatID, media, &gotgbot.SendVideoOpts{
			Caption:               caption,
			Duration:              video.Duration,
			Width:                 video.Width,
			Height:                video.Height,
			Thumbnail:             thumbnail,
			SupportsStreaming:     true,
			ShowCaptionAboveMedia: true,
			HasSpoiler:            opts.Hidden,
		})
		return err
	})
	if err != nil {
		return err
	}
	if !sent {
		return fmt.Errorf("%w (video post %s)", util.ErrDeliveryExhausted, sub.ID)
	}
	return nil
}

func (s *Sender) sendGif(
	ctx context.Context,
	chatID int64,
	sub *models.Submission,
	gif *models.Gif,
	opts *SendOptions,
) error {
	caption := s.shortCaption(sub, opts)
	thumbnail := s.thumbnail(ctx, gif.Thumbnail)
	sent, err := s.sendLadder(ctx, gif.Sources, func(media gotgbot.InputFileOrString) error {
		_, err := s.Bot.SendAnimation(chatID, media, &gotgbot.SendAnimationOpts{
			Caption:               caption,
			Width:                 gif.Width,
			Height:                gif.Height,
			Thumbnail:             thumbnail,
			ShowCaptionAboveMedia: true,
			HasSpoiler:            opts.Hidden,
		})
		return err
	})
	if err != nil {
		return err
	}
	if !sent {
		return fmt.Errorf("%w (gif post %s)", util.ErrDeliveryExhausted, sub.ID)
	}
	return nil
}

// sendLadder tries candidate sources in order. A remote candidate
// rejected for a recognized reason is fetched locally once (when small
// enough) and retried as an upload before the ladder advances. Returns
// false when every candidate was rejected.
func (s *Sender) sendLadder(
	ctx context.Context,
	sources []models.MediaSource,
	send func(media gotgbot.InputFileOrString) error,
) (bool, error) {
	for i := 0; i < len(sources); {
		current := sources[i]
		err := send(inputFile(current))
		if err == nil {
			return true, nil
		}
		if !isRetryableReject(err) {
			return false, err
		}
		zap.S().Debugf("candidate %d rejected: %v", i, err)
		if !current.IsLocal() {
			if size, sizeErr := util.RemoteSize(ctx, current.URL); sizeErr == nil && size < maxDirectFetchSize {
				data, fetchErr := util.FetchBytes(ctx, current.URL)
				if fetchErr == nil {
					sources[i] = models.MediaSource{URL: current.URL, Data: data}
					continue
				}
				zap.S().Warnf("failed to fetch rejected candidate: %v", fetchErr)
			}
		}
		i++
	}
	return false, nil
}

func (s *Sender) sendGallery(
	ctx context.Context,
	chatID int64,
	sub *models.Submission,
	gallery *models.Gallery,
	opts *SendOptions,
) error {
	if err := s.sendText(chatID, sub, opts); err != nil {
		return fmt.Errorf("failed to send gallery caption: %w", err)
	}

	primary, lower, err := s.buildGalleryInputs(ctx, gallery, opts)
	if err != nil {
		return err
	}
	if err := s.sendGalleryBatches(chatID, primary); err != nil {
		var tgErr *gotgbot.TelegramError
		if errors.As(err, &tgErr) && partialGroupFailureRE.MatchString(tgErr.Description) {
			zap.S().Warnf("gallery rejected for post %s, retrying with lower fidelity", sub.ID)
			return s.sendGalleryBatches(chatID, lower)
		}
		return err
	}
	return nil
}

// buildGalleryInputs assembles the primary batch and the lower-fidelity
// fallback batch. Animated items are uploaded as bytes since telegram
// refuses to fetch them by URL. Item captions are raw reddit text, so
// they carry no parse mode.
func (s *Sender) buildGalleryInputs(
	ctx context.Context,
	gallery *models.Gallery,
	opts *SendOptions,
) ([]gotgbot.InputMedia, []gotgbot.InputMedia, error) {
	var primary, lower []gotgbot.InputMedia
	for _, item := range gallery.Items {
		switch item.Kind {
		case models.GalleryKindImage:
			primary = append(primary, &gotgbot.InputMediaPhoto{
				Media:      gotgbot.InputFileByURL(item.Media),
				Caption:    item.Caption,
				HasSpoiler: opts.Hidden,
			})
			if item.MediaLower != "" {
				lower = append(lower, &gotgbot.InputMediaPhoto{
					Media:      gotgbot.InputFileByURL(item.MediaLower),
					Caption:    item.Caption,
					HasSpoiler: opts.Hidden,
				})
			}
		case models.GalleryKindAnimated:
			input, err := s.animatedGalleryInput(ctx, item.Media, item.Caption, opts)
			if err != nil {
				return nil, nil, err
			}
			primary = append(primary, input)
			if item.MediaLower != "" {
				input, err := s.animatedGalleryInput(ctx, item.MediaLower, item.Caption, opts)
				if err != nil {
					return nil, nil, err
				}
				lower = append(lower, input)
			}
		default:
			return nil, nil, fmt.Errorf("%w (%q)", util.ErrUnsupportedGalleryKind, item.Kind)
		}
	}
	return primary, lower, nil
}

func (s *Sender) animatedGalleryInput(
	ctx context.Context,
	mediaURL string,
	caption string,
	opts *SendOptions,
) (gotgbot.InputMedia, error) {
	data, err := util.FetchBytes(ctx, mediaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch gallery item: %w", err)
	}
	source := models.MediaSource{URL: mediaURL, Data: data}
	return &gotgbot.InputMediaVideo{
		Media:             gotgbot.InputFileByReader(source.FileName(), bytes.NewReader(data)),
		Caption:           caption,
		SupportsStreaming: true,
		HasSpoiler:        opts.Hidden,
	}, nil
}

func (s *Sender) sendGalleryBatches(chatID int64, media []gotgbot.InputMedia) error {
	if len(media) == 0 {
		return nil
	}
	batches := slices.Collect(slices.Chunk(media, maxGalleryBatch))
	for _, batch := range batches {
		if _, err := s.Bot.SendMediaGroup(chatID, batch, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sender) thumbnail(ctx context.Context, url string) gotgbot.InputFile {
	if url == "" {
		return nil
	}
	data, err := util.FetchBytes(ctx, url)
	if err != nil {
		zap.S().Warnf("failed to fetch thumbnail: %v", err)
		return nil
	}
	return gotgbot.InputFileByReader("thumbnail.jpg", bytes.NewReader(data))
}

func inputFile(source models.MediaSource) gotgbot.InputFileOrString {
	if source.IsLocal() {
		return gotgbot.InputFileByReader(source.FileName(), bytes.NewReader(source.Data))
	}
	return gotgbot.InputFileByURL(source.URL)
}

func isRetryableReject(err error) bool {
	var tgErr *gotgbot.TelegramError
	if !errors.As(err, &tgErr) || tgErr.Code != 400 {
		return false
	}
	description := strings.ToLower(tgErr.Description)
	for _, reason := range retryableReasons {
		if strings.Contains(description, reason) {
			return true
		}
	}
	return false
}
