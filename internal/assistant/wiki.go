package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrNoArticle    = errors.New("no article")
	ErrDisambiguous = errors.New("disambiguation page")
)

const summarySentences = 2

// Wikipedia fetches page summaries from the REST API.
type Wikipedia struct {
	BaseURL string
	Client  *http.Client
}

func NewWikipedia(baseURL string, client *http.Client) *Wikipedia {
	if client == nil {
		client = http.DefaultClient
	}
	return &Wikipedia{BaseURL: baseURL, Client: client}
}

// Summary returns the first sentences of the article for topic.
func (w *Wikipedia) Summary(ctx context.Context, topic string) (string, error) {
	title := strings.ReplaceAll(strings.TrimSpace(topic), " ", "_")
	if title == "" {
		return "", ErrNoArticle
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+url.PathEscape(title), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "jarvis/1.0")

	resp, err := w.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("wikipedia: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNoArticle
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("wikipedia: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	doc := gjson.ParseBytes(body)
	if doc.Get("type").String() == "disambiguation" {
		return "", ErrDisambiguous
	}

	extract := strings.TrimSpace(doc.Get("extract").String())
	if extract == "" {
		return "", ErrNoArticle
	}

	return firstSentences(extract, summarySentences), nil
}

func firstSentences(text string, n int) string {
	count := 0
	for i, r := range text {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(text) && text[i+1] != ' ' && text[i+1] != '\n' {
			continue
		}
		count++
		if count == n {
			return text[:i+1]
		}
	}
	return text
}
