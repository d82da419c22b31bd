// Package scrape pulls the video title and description out of a watch page.
package scrape

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/trailerseerr/internal/parser"
)

var (
	titleSelectors       = []string{"h1.ytd-watch-metadata", "h1.title", "h1"}
	descriptionSelectors = []string{"#description-inline-expander", "#description", ".ytd-video-secondary-info-renderer"}
	channelSelectors     = []string{"ytd-channel-name a", ".ytd-channel-name a"}

	titleMeta       = []string{`meta[property="og:title"]`, `meta[name="title"]`}
	descriptionMeta = []string{`meta[property="og:description"]`, `meta[name="description"]`}
)

// VideoInfo is what a watch page says about its video.
type VideoInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	VideoID     string `json:"videoId"`
	ChannelName string `json:"channelName,omitempty"`
}

// PageInfo is VideoInfo plus the cleaned search query and type hint.
type PageInfo struct {
	VideoInfo
	CleanedTitle string           `json:"cleanedTitle"`
	MediaType    parser.MediaType `json:"mediaType"`
}

// Parse reads an HTML document and extracts its video info.
func Parse(html []byte, pageURL string) (VideoInfo, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return VideoInfo{}, fmt.Errorf("parsing HTML: %w", err)
	}
	return Extract(doc, pageURL), nil
}

// Extract tries each selector in order and falls back to meta tags for
// server-rendered pages without the player markup.
func Extract(doc *goquery.Document, pageURL string) VideoInfo {
	info := VideoInfo{
		URL:     pageURL,
		VideoID: VideoID(pageURL),
	}

	info.Title = firstText(doc, titleSelectors)
	if info.Title == "" {
		info.Title = firstMeta(doc, titleMeta)
	}

	info.Description = firstText(doc, descriptionSelectors)
	if info.Description == "" {
		info.Description = firstMeta(doc, descriptionMeta)
	}

	info.ChannelName = firstText(doc, channelSelectors)
	return info
}

// Process cleans and classifies the title. A page without a title yields an
// empty result carrying only the URL.
func Process(info VideoInfo) PageInfo {
	if info.Title == "" {
		return PageInfo{
			VideoInfo: VideoInfo{URL: info.URL},
			MediaType: parser.MediaTypeMovie,
		}
	}

	cc := parser.CleanAndClassify(info.Title, info.Description)
	return PageInfo{
		VideoInfo:    info,
		CleanedTitle: cc.Cleaned,
		MediaType:    cc.MediaType,
	}
}

// VideoID returns the v query parameter of a watch URL.
func VideoID(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("v")
}

func firstText(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstMeta(doc *goquery.Document, selectors []string) string {
	for _, sel := range selectors {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if content = strings.TrimSpace(content); content != "" {
				return content
			}
		}
	}
	return ""
}
