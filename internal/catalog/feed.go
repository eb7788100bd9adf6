package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Feed is the top-level shape of /products.json. Entries stay raw so a single
// malformed product can be skipped without discarding the batch.
type Feed struct {
	Products []json.RawMessage `json:"products"`
}

// DecodeFeed parses a product feed body.
func DecodeFeed(body []byte) (*Feed, error) {
	var feed Feed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode product feed: %w", err)
	}
	return &feed, nil
}

type feedEntry struct {
	ID          any              `json:"id"`
	Title       string           `json:"title"`
	BodyHTML    string           `json:"body_html"`
	Vendor      string           `json:"vendor"`
	ProductType string           `json:"product_type"`
	Handle      string           `json:"handle"`
	Tags        tagList          `json:"tags"`
	Images      []feedImage      `json:"images"`
	Variants    []map[string]any `json:"variants"`
}

type feedImage struct {
	Src string `json:"src"`
}

func decodeEntry(raw json.RawMessage) (feedEntry, error) {
	var entry feedEntry
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&entry); err != nil {
		return feedEntry{}, fmt.Errorf("decode product entry: %w", err)
	}
	return entry, nil
}

// tagList accepts both the array form and the legacy comma separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tags must be a list or string: %w", err)
	}
	var out []string
	for _, tag := range strings.Split(joined, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	*t = out
	return nil
}

// stringValue renders a scalar feed value (string or number) as a string.
// Null and absent values yield nil.
func stringValue(v any) *string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return &val
	case json.Number:
		s := val.String()
		return &s
	case float64, int, int64, bool:
		s := fmt.Sprint(val)
		return &s
	default:
		return nil
	}
}
