package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reddigram/enums"
)

const listingJSON = `{"data":{"children":[
	{"data":{"id":"a1","title":"first"}},
	{"data":{"id":"a2","title":"second"}}
]}}`

func TestSubredditPostsAnonymous(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, listingJSON)
	}))
	t.Cleanup(server.Close)

	client := &Client{HTTP: server.Client(), BaseURL: server.URL}
	posts, err := client.SubredditPosts(context.Background(), []string{"golang", "rust"}, 25, enums.SortModeTop)
	require.NoError(t, err)

	assert.Equal(t, "/r/golang+rust/top.json", gotPath)
	assert.Equal(t, "limit=25&raw_json=1", gotQuery)
	require.Len(t, posts, 2)
	assert.Equal(t, "a1", posts[0].Get("id").String())
	assert.Equal(t, "a2", posts[1].Get("id").String())
}

func TestSubredditPostsInvalidSortFallsBack(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, listingJSON)
	}))
	t.Cleanup(server.Close)

	client := &Client{HTTP: server.Client(), BaseURL: server.URL}
	_, err := client.SubredditPosts(context.Background(), []string{"golang"}, 10, "bogus")
	require.NoError(t, err)
	assert.Equal(t, "/r/golang/hot.json", gotPath)
}

func TestSubredditPostsAuthenticated(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		assert.Equal(t, http.MethodPost, r.Method)
		fmt.Fprint(w, `{"access_token":"tok123","token_type":"bearer"}`)
	}))
	t.Cleanup(tokenServer.Close)

	var gotAuth string
	apiServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/r/golang/hot", r.URL.Path)
		fmt.Fprint(w, listingJSON)
	}))
	t.Cleanup(apiServer.Close)

	client := NewClient("client-id", "client-secret")
	client.HTTP = apiServer.Client()
	client.TokenURL = tokenServer.URL
	client.OAuthURL = apiServer.URL

	posts, err := client.SubredditPosts(context.Background(), []string{"golang"}, 10, enums.SortModeHot)
	require.NoError(t, err)
	assert.Equal(t, "bearer tok123", gotAuth)
	assert.Len(t, posts, 2)
}

func TestPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comments/abc.json", r.URL.Path)
		fmt.Fprint(w, `[{"data":{"children":[{"data":{"id":"abc","title":"the post"}}]}}]`)
	}))
	t.Cleanup(server.Close)

	client := &Client{HTTP: server.Client(), BaseURL: server.URL}
	post, err := client.Post(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "the post", post.Get("title").String())
}

func TestPostMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	t.Cleanup(server.Close)

	client := &Client{HTTP: server.Client(), BaseURL: server.URL}
	_, err := client.Post(context.Background(), "abc")
	assert.Error(t, err)
}
