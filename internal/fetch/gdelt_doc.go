package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"tonepulse/internal/chunker"
	"tonepulse/internal/config"
)

// GdeltDocFetcher queries the GDELT Doc 2.0 article-search API. Result rows
// carry a seendate column but no tone signal; the normalizer assigns the
// neutral default value to this variant.
type GdeltDocFetcher struct {
	client  *Client
	baseURL string
	keyword string
	country string
}

// NewGdeltDocFetcher creates a Doc API fetcher for one keyword/country.
func NewGdeltDocFetcher(client *Client, keyword, country string) *GdeltDocFetcher {
	return &GdeltDocFetcher{
		client:  client,
		baseURL: config.GdeltDocAPIBaseURL,
		keyword: keyword,
		country: country,
	}
}

func (f *GdeltDocFetcher) Source() string { return "gdelt_doc" }

// docColumns is the fixed column order of the article list.
var docColumns = []string{"url", "title", "seendate", "domain", "language", "sourcecountry"}

type docArticle struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	SeenDate      string `json:"seendate"`
	Domain        string `json:"domain"`
	Language      string `json:"language"`
	SourceCountry string `json:"sourcecountry"`
}

type docResponse struct {
	Articles []docArticle `json:"articles"`
}

// Fetch searches articles for the range. No matching articles is a valid
// empty batch.
func (f *GdeltDocFetcher) Fetch(ctx context.Context, r chunker.DateRange) (*RawBatch, error) {
	query := fmt.Sprintf("%q", f.keyword)
	if f.country != "" {
		query += " sourcecountry:" + f.country
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("mode", "artlist")
	params.Set("format", "json")
	params.Set("startdatetime", r.Start.Format(config.CompactDateLayout)+"000000")
	params.Set("enddatetime", r.End.Format(config.CompactDateLayout)+"235959")
	params.Set("maxrecords", strconv.Itoa(config.GdeltDocMaxRecords))

	var resp docResponse
	if err := f.client.GetJSON(ctx, f.baseURL+"?"+params.Encode(), &resp); err != nil {
		return nil, fmt.Errorf("gdelt doc search %s: %w", r, err)
	}

	batch := &RawBatch{Source: f.Source(), Columns: docColumns}
	for _, a := range resp.Articles {
		batch.Rows = append(batch.Rows, []string{
			a.URL, a.Title, a.SeenDate, a.Domain, a.Language, a.SourceCountry,
		})
	}
	return batch, nil
}

// Validate requires the seendate column the normalizer dispatches on.
func (f *GdeltDocFetcher) Validate(b *RawBatch) bool {
	return b != nil && b.HasColumn("seendate")
}
