package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailerseerr/internal/config"
	"github.com/trailerseerr/internal/parser"
	"github.com/trailerseerr/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

const watchPage = `<!DOCTYPE html>
<html><head><title>ignored</title></head>
<body>
  <ytd-watch-metadata>
    <h1 class="style-scope ytd-watch-metadata"> Dune: Part Two | Official Trailer 3 </h1>
  </ytd-watch-metadata>
  <h1>Some other heading</h1>
  <ytd-channel-name><a href="/@WarnerBrosPictures">Warner Bros. Pictures</a></ytd-channel-name>
  <div id="description-inline-expander">
    Dune: Part Two in theaters March 1.
  </div>
</body></html>`

const metaPage = `<!DOCTYPE html>
<html><head>
  <meta property="og:title" content="Andor Season 2 | Official Trailer">
  <meta name="description" content="The final season of the series.">
</head><body><div id="player"></div></body></html>`

const loadingPage = `<!DOCTYPE html><html><body><div id="spinner"></div></body></html>`

func TestParse(t *testing.T) {
	info, err := Parse([]byte(watchPage), "https://www.youtube.com/watch?v=U2Qp5pL3ovA&t=10")
	require.NoError(t, err)

	assert.Equal(t, "Dune: Part Two | Official Trailer 3", info.Title)
	assert.Equal(t, "Dune: Part Two in theaters March 1.", info.Description)
	assert.Equal(t, "U2Qp5pL3ovA", info.VideoID)
	assert.Equal(t, "Warner Bros. Pictures", info.ChannelName)
}

func TestParseMetaFallback(t *testing.T) {
	info, err := Parse([]byte(metaPage), "https://www.youtube.com/watch?v=abc")
	require.NoError(t, err)

	assert.Equal(t, "Andor Season 2 | Official Trailer", info.Title)
	assert.Equal(t, "The final season of the series.", info.Description)
	assert.Empty(t, info.ChannelName)
}

func TestParseSelectorOrder(t *testing.T) {
	html := `<html><body><h1>Plain</h1><h1 class="title">Classic Layout</h1></body></html>`
	info, err := Parse([]byte(html), "")
	require.NoError(t, err)
	assert.Equal(t, "Classic Layout", info.Title)
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?list=x&v=abc", "abc"},
		{"https://www.youtube.com/", ""},
		{"://bad", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VideoID(tt.url), tt.url)
	}
}

func TestProcess(t *testing.T) {
	page := Process(VideoInfo{
		Title:       "Andor Season 2 | Official Trailer",
		Description: "The final season of the series.",
		URL:         "https://www.youtube.com/watch?v=abc",
		VideoID:     "abc",
	})
	assert.Equal(t, "andor season 2", page.CleanedTitle)
	assert.Equal(t, parser.MediaTypeTV, page.MediaType)
	assert.Equal(t, "abc", page.VideoID)

	empty := Process(VideoInfo{URL: "https://www.youtube.com/", Description: "x", VideoID: "y"})
	assert.Equal(t, "https://www.youtube.com/", empty.URL)
	assert.Empty(t, empty.Description)
	assert.Empty(t, empty.VideoID)
	assert.Empty(t, empty.CleanedTitle)
	assert.Equal(t, parser.MediaTypeMovie, empty.MediaType)
}

func newFetcher() *Fetcher {
	return NewFetcher(config.ScrapeConfig{Retries: 3, RetryDelay: 1})
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(watchPage))
	}))
	defer srv.Close()

	info, err := newFetcher().Fetch(context.Background(), srv.URL+"/watch?v=U2Qp5pL3ovA")
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part Two | Official Trailer 3", info.Title)
	assert.Equal(t, "U2Qp5pL3ovA", info.VideoID)
	assert.Equal(t, int32(3), hits.Load())
}

func TestFetchRetriesUntitledPage(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			_, _ = w.Write([]byte(loadingPage))
			return
		}
		_, _ = w.Write([]byte(metaPage))
	}))
	defer srv.Close()

	info, err := newFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Andor Season 2 | Official Trailer", info.Title)
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchGivesUp(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(loadingPage))
	}))
	defer srv.Close()

	info, err := newFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, info.Title)
	assert.Equal(t, int32(4), hits.Load())
}

func TestFetchClientErrorNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newFetcher().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Equal(t, int32(1), hits.Load())
}
