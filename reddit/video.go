package reddit

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"github.com/unki2aut/go-mpd"
	"go.uber.org/zap"

	"reddigram/models"
	"reddigram/util"
)

// hard cap on muxed video+audio size accepted by the bot API
const maxMuxedSize = 50_000_000

var playerRE = regexp.MustCompile(`(?s)<shreddit-player.*?packaged-media-json="(.*?)".*?</shreddit-player>`)

// resolveVideo builds the video payload. The packaged player manifest
// scraped from the post page wins; without one the DASH streams are muxed
// locally, and without ffmpeg the post fails.
func (c *Client) resolveVideo(ctx context.Context, s gjson.Result) (models.Media, error) {
	video, err := c.scrapePackagedMedia(ctx, s)
	if err != nil {
		return nil, err
	}
	if video != nil {
		return video, nil
	}
	if c.Transcode {
		return c.muxDashVideo(ctx, s)
	}
	return nil, util.ErrVideoTooLarge
}

// scrapePackagedMedia extracts the mp4 permutation ladder embedded in the
// post page's player element. The manifest lists permutations best
// quality first; that order is kept so delivery degrades on failure.
// Returns nil without error when the page has no packaged player.
func (c *Client) scrapePackagedMedia(ctx context.Context, s gjson.Result) (*models.Video, error) {
	page, err := c.pageHTML(ctx, s.Get("permalink").String())
	if err != nil {
		return nil, err
	}
	match := playerRE.FindStringSubmatch(page)
	if match == nil {
		return nil, nil
	}
	packaged := gjson.Parse(html.UnescapeString(match[1]))
	permutations := packaged.Get("playbackMp4s.permutations").Array()
	if len(permutations) == 0 {
		return nil, nil
	}
	video := &models.Video{
		Width:     s.Get("media.reddit_video.width").Int(),
		Height:    s.Get("media.reddit_video.height").Int(),
		Duration:  s.Get("media.reddit_video.duration").Int(),
		Thumbnail: util.FixURL(previewThumbnail(s).Get("url").String()),
	}
	for _, permutation := range permutations {
		video.Sources = append(video.Sources, models.MediaSource{
			URL: permutation.Get("source.url").String(),
		})
	}
	return video, nil
}

// muxDashVideo picks the largest DASH video+audio pair under the size cap
// and stream-copies it into a single mp4, returning its bytes as the sole
// resolution candidate.
func (c *Client) muxDashVideo(ctx context.Context, s gjson.Result) (models.Media, error) {
	dashURL := s.Get("media.reddit_video.dash_url").String()
	if dashURL == "" {
		return nil, util.ErrVideoTooLarge
	}
	body, err := c.get(ctx, dashURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dash manifest: %w", err)
	}
	manifest := new(mpd.MPD)
	if err := manifest.Decode(body); err != nil {
		return nil, fmt.Errorf("failed to parse dash manifest: %w", err)
	}

	videos, audios := dashStreamURLs(manifest, s.Get("url").String())
	// the api-advertised fallback stream is the best candidate reddit
	// itself serves, try it before the manifest entries
	if fallback := s.Get("media.reddit_video.fallback_url").String(); fallback != "" {
		videos = append([]string{fallback}, videos...)
	}
	if len(videos) == 0 {
		return nil, util.ErrVideoTooLarge
	}

	videoURL, audioURL, err := c.selectMuxPair(ctx, videos, audios)
	if err != nil {
		return nil, err
	}
	data, err := muxStreams(videoURL, audioURL)
	if err != nil {
		return nil, err
	}

	return &models.Video{
		Sources:   []models.MediaSource{{URL: videoURL, Data: data}},
		Width:     s.Get("media.reddit_video.width").Int(),
		Height:    s.Get("media.reddit_video.height").Int(),
		Duration:  s.Get("media.reddit_video.duration").Int(),
		Thumbnail: util.FixURL(previewThumbnail(s).Get("url").String()),
	}, nil
}

// dashStreamURLs splits the manifest representations into video and audio
// stream URLs, best quality first.
func dashStreamURLs(manifest *mpd.MPD, baseURL string) ([]string, []string) {
	if len(manifest.Period) == 0 {
		return nil, nil
	}
	type candidate struct {
		url       string
		bandwidth uint64
	}
	var videos, audios []candidate
	for _, set := range manifest.Period[0].AdaptationSets {
		if set == nil {
			continue
		}
		contentType := strings.ToLower(set.MimeType)
		if set.ContentType != nil {
			contentType = strings.ToLower(*set.ContentType)
		}
		for _, rep := range set.Representations {
			if len(rep.BaseURL) == 0 || rep.BaseURL[0] == nil || rep.BaseURL[0].Value == "" {
				continue
			}
			relative := rep.BaseURL[0].Value
			cand := candidate{url: baseURL + "/" + relative}
			if rep.Bandwidth != nil {
				cand.bandwidth = *rep.Bandwidth
			}
			if strings.HasPrefix(contentType, "audio") ||
				strings.Contains(relative, "AUDIO") {
				audios = append(audios, cand)
			} else {
				videos = append(videos, cand)
			}
		}
	}
	sort.SliceStable(videos, func(i, j int) bool { return videos[i].bandwidth > videos[j].bandwidth })
	sort.SliceStable(audios, func(i, j int) bool { return audios[i].bandwidth > audios[j].bandwidth })

	videoURLs := make([]string, 0, len(videos))
	for _, cand := range videos {
		videoURLs = append(videoURLs, cand.url)
	}
	audioURLs := make([]string, 0, len(audios))
	for _, cand := range audios {
		audioURLs = append(audioURLs, cand.url)
	}
	return videoURLs, audioURLs
}

// selectMuxPair walks audio candidates from high to low fidelity and, for
// each, video candidates from high to low, returning the first pair whose
// combined declared size fits under the cap. Videos without any audio
// stream are selected alone.
func (c *Client) selectMuxPair(
	ctx context.Context,
	videos []string,
	audios []string,
) (string, string, error) {
	if len(audios) == 0 {
		for _, videoURL := range videos {
			size, err := util.RemoteSize(ctx, videoURL)
			if err != nil {
				return "", "", fmt.Errorf("failed to probe video size: %w", err)
			}
			if size < maxMuxedSize {
				return videoURL, "", nil
			}
		}
		return "", "", util.ErrVideoTooLarge
	}
	for _, audioURL := range audios {
		audioSize, err := util.RemoteSize(ctx, audioURL)
		if err != nil {
			return "", "", fmt.Errorf("failed to probe audio size: %w", err)
		}
		for _, videoURL := range videos {
			videoSize, err := util.RemoteSize(ctx, videoURL)
			if err != nil {
				return "", "", fmt.Errorf("failed to probe video size: %w", err)
			}
			if videoSize+audioSize < maxMuxedSize {
				return videoURL, audioURL, nil
			}
		}
	}
	return "", "", util.ErrVideoTooLarge
}

// muxStreams stream-copies the video and audio into one mp4 and returns
// its bytes. The output name is unique per invocation so concurrent
// transcodes never collide, and the file is removed before returning.
func muxStreams(videoURL string, audioURL string) ([]byte, error) {
	outPath := filepath.Join(os.TempDir(), uuid.NewString()+".mp4")
	defer os.Remove(outPath)

	streams := []*ffmpeg.Stream{ffmpeg.Input(videoURL)}
	kwargs := ffmpeg.KwArgs{
		"c":        "copy",
		"movflags": "+faststart",
	}
	if audioURL != "" {
		streams = append(streams, ffmpeg.Input(audioURL))
		kwargs["map"] = []string{"0:v:0", "1:a:0"}
	}

	cmd := ffmpeg.Output(streams, outPath, kwargs).
		OverWriteOutput().
		Silent(true).
		Compile()
	var ffmpegLog bytes.Buffer
	cmd.Stdout = &ffmpegLog
	cmd.Stderr = &ffmpegLog
	err := cmd.Run()
	if output := strings.TrimSpace(ffmpegLog.String()); output != "" {
		zap.S().Infof("ffmpeg: %s", output)
	}
	if err != nil {
		return nil, fmt.Errorf("ffmpeg mux failed: %w", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read muxed file: %w", err)
	}
	zap.S().Debugf("muxed video size: %s", humanize.Bytes(uint64(len(data))))
	return data, nil
}
