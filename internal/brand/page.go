package brand

import (
	"bytes"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is the result of a single fetch.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration

	once sync.Once
	doc  *goquery.Document
	err  error
}

// Document parses Body as HTML on first use and caches the result.
func (p *Page) Document() (*goquery.Document, error) {
	p.once.Do(func() {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
		if err != nil {
			p.err = fmt.Errorf("parse html %s: %w", p.URL, err)
			return
		}
		p.doc = doc
	})
	return p.doc, p.err
}
