package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/okian/medaldraft/internal/domain/model"
	"github.com/okian/medaldraft/pkg/logger"
)

const apiAccept = "application/json, text/html;q=0.8"

// APISource reads a medal endpoint that answers JSON, or an HTML page that
// embeds its data in a __NEXT_DATA__ script.
type APISource struct {
	url  string
	name string
	http fetcher
}

// NewAPISource creates a source for endpoint.
func NewAPISource(endpoint string, opts ...HTTPOption) *APISource {
	name := "api"
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		name = "api:" + u.Host + u.Path
	}
	return &APISource{url: endpoint, name: name, http: newFetcher(opts)}
}

func (s *APISource) Name() string { return s.name }
func (s *APISource) Live() bool   { return true }

// Fetch downloads and parses the endpoint.
func (s *APISource) Fetch(ctx context.Context) ([]model.MedalRecord, error) {
	body, contentType, err := s.http.get(ctx, s.url, apiAccept)
	if err != nil {
		return nil, err
	}

	if isHTML(contentType, body) {
		body, err = nextData(body)
		if err != nil {
			return nil, err
		}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	rows := findMedalRows(payload)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no medal rows in payload", ErrMalformed)
	}

	records := make([]model.MedalRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := normalizeRow(row)
		if err != nil {
			s.http.logger.Debug(ctx, "skipping medal row", logger.String("source", s.name), logger.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: none of %d rows carried complete medal counts", ErrMalformed, len(rows))
	}
	return records, nil
}

func isHTML(contentType string, body []byte) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(body), []byte("<"))
}

// nextData extracts the JSON payload of a Next.js page.
func nextData(page []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	data := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").First().Text())
	if data == "" {
		return nil, fmt.Errorf("%w: html page without __NEXT_DATA__", ErrMalformed)
	}
	return []byte(data), nil
}
