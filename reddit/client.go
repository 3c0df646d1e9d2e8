// Package reddit fetches posts from the reddit API and normalizes them
// into submissions.
package reddit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"reddigram/enums"
	"reddigram/util"
)

const (
	defaultBaseURL  = "https://www.reddit.com"
	defaultOAuthURL = "https://oauth.reddit.com"
	defaultTokenURL = "https://www.reddit.com/api/v1/access_token"

	userAgent = "reddigram/1.0"
)

type Client struct {
	HTTP     *http.Client
	BaseURL  string
	OAuthURL string
	TokenURL string

	// Transcode enables the local ffmpeg mux path for videos without a
	// packaged player manifest.
	Transcode bool

	clientID     string
	clientSecret string
	token        string
	cookies      []*http.Cookie
}

// NewClient builds a client. With empty credentials every call goes to the
// unauthenticated www endpoints.
func NewClient(clientID string, clientSecret string) *Client {
	c := &Client{
		HTTP:         util.GetHTTPSession(),
		BaseURL:      defaultBaseURL,
		OAuthURL:     defaultOAuthURL,
		TokenURL:     defaultTokenURL,
		Transcode:    util.CheckFFmpeg(),
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	cookies, err := util.ParseCookieFile("reddit.txt")
	if err == nil {
		c.cookies = cookies
	}
	return c
}

// refreshToken runs the client-credentials flow. A client without
// credentials stays unauthenticated.
func (c *Client) refreshToken(ctx context.Context) error {
	if c.clientID == "" || c.clientSecret == "" {
		return nil
	}
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.TokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	res, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("failed to request access token: %w", err)
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read token response: %w", err)
	}
	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return fmt.Errorf("no access token in response (status %d)", res.StatusCode)
	}
	c.token = token
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "bearer "+c.token)
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", res.StatusCode, rawURL)
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// SubredditPosts returns the raw post records of a subreddit listing,
// newest batch first per the sort order. Multiple subreddits are queried
// as one combined listing.
func (c *Client) SubredditPosts(
	ctx context.Context,
	subreddits []string,
	limit int,
	sort enums.SortMode,
) ([]gjson.Result, error) {
	if err := c.refreshToken(ctx); err != nil {
		return nil, err
	}
	if !sort.IsValid() {
		sort = enums.SortModeHot
	}
	name := strings.Join(subreddits, "+")
	var listingURL string
	if c.token != "" {
		listingURL = fmt.Sprintf(
			"%s/r/%s/%s?limit=%d&raw_json=1",
			c.OAuthURL, name, sort, limit,
		)
	} else {
		listingURL = fmt.Sprintf(
			"%s/r/%s/%s.json?limit=%d&raw_json=1",
			c.BaseURL, name, sort, limit,
		)
	}
	body, err := c.get(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	children := gjson.GetBytes(body, "data.children").Array()
	posts := make([]gjson.Result, 0, len(children))
	for _, child := range children {
		posts = append(posts, child.Get("data"))
	}
	zap.S().Debugf("fetched %d posts from r/%s", len(posts), name)
	return posts, nil
}

// Post fetches a single raw post record by submission ID.
func (c *Client) Post(ctx context.Context, id string) (gjson.Result, error) {
	if err := c.refreshToken(ctx); err != nil {
		return gjson.Result{}, err
	}
	var postURL string
	if c.token != "" {
		postURL = fmt.Sprintf("%s/comments/%s?raw_json=1", c.OAuthURL, id)
	} else {
		postURL = fmt.Sprintf("%s/comments/%s.json?raw_json=1", c.BaseURL, id)
	}
	body, err := c.get(ctx, postURL)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to fetch post: %w", err)
	}
	post := gjson.GetBytes(body, "0.data.children.0.data")
	if !post.Exists() {
		return gjson.Result{}, fmt.Errorf("no post data in response for %s", id)
	}
	return post, nil
}

// pageHTML fetches the rendered post page used for player scraping.
func (c *Client) pageHTML(ctx context.Context, permalink string) (string, error) {
	body, err := c.get(ctx, c.BaseURL+permalink)
	if err != nil {
		return "", fmt.Errorf("failed to fetch post page: %w", err)
	}
	return string(body), nil
}
