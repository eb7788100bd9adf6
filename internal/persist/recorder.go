// Package persist fans finished analyses out to the configured result sinks.
// Every sink is best effort: failures are logged and never change the
// analysis returned to the caller.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/logging"
	"github.com/JakeFAU/storefront-insights/internal/metrics"
)

// Sink names used in metrics and logs.
const (
	SinkStore     = "store"
	SinkBlob      = "blob"
	SinkPublisher = "publisher"
)

// Event types published after a recording.
const (
	EventBrandAnalyzed      = "brand.analyzed"
	EventCompetitorAnalyzed = "competitors.analyzed"
)

const snapshotContentType = "application/json"

// Config controls blob layout and the notification topic.
type Config struct {
	BlobPrefix string
	Topic      string
}

// Event is the notification payload.
type Event struct {
	Type              string    `json:"type"`
	WebsiteURL        string    `json:"website_url"`
	BrandName         string    `json:"brand_name,omitempty"`
	ExtractionSuccess bool      `json:"extraction_success"`
	TotalProducts     int       `json:"total_products"`
	RecordID          int64     `json:"record_id,omitempty"`
	SnapshotURI       string    `json:"snapshot_uri,omitempty"`
	SnapshotSHA256    string    `json:"snapshot_sha256,omitempty"`
	Competitors       []string  `json:"competitors,omitempty"`
	PublishedAt       time.Time `json:"published_at"`
}

// Receipt reports what each sink accepted. Zero values mean the sink was
// absent or failed.
type Receipt struct {
	RecordID       int64
	SnapshotURI    string
	SnapshotSHA256 string
	MessageID      string
}

// Recorder writes contexts to a store, archives JSON snapshots and publishes
// completion events. Any collaborator may be nil.
type Recorder struct {
	store     brand.Store
	blobs     brand.BlobStore
	publisher brand.Publisher
	ids       brand.IDGenerator
	clock     brand.Clock
	hasher    brand.Hasher
	cfg       Config
	logger    *zap.Logger
}

// Option customizes a Recorder.
type Option func(*Recorder)

// WithHasher digests every archived snapshot. The digest travels with the
// published event so consumers can verify the blob they fetch.
func WithHasher(h brand.Hasher) Option {
	return func(r *Recorder) {
		r.hasher = h
	}
}

// New constructs a Recorder.
func New(
	store brand.Store,
	blobs brand.BlobStore,
	publisher brand.Publisher,
	ids brand.IDGenerator,
	clock brand.Clock,
	cfg Config,
	logger *zap.Logger,
	opts ...Option,
) *Recorder {
	r := &Recorder{
		store:     store,
		blobs:     blobs,
		publisher: publisher,
		ids:       ids,
		clock:     clock,
		cfg:       cfg,
		logger:    logging.OrNop(logger).Named("persist"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record saves bc, archives a snapshot and publishes a brand.analyzed event.
// A successful save appends "Saved to database with ID: N" to bc.
func (r *Recorder) Record(ctx context.Context, bc *brand.Context) Receipt {
	receipt := r.saveAndArchive(ctx, bc)
	receipt.MessageID = r.publish(ctx, Event{
		Type:              EventBrandAnalyzed,
		WebsiteURL:        bc.WebsiteURL,
		BrandName:         bc.BrandName,
		ExtractionSuccess: bc.ExtractionSuccess,
		TotalProducts:     bc.TotalProducts,
		RecordID:          receipt.RecordID,
		SnapshotURI:       receipt.SnapshotURI,
		SnapshotSHA256:    receipt.SnapshotSHA256,
	})
	return receipt
}

// RecordAnalysis saves the primary brand and every competitor, then
// publishes one competitors.analyzed event for the primary.
func (r *Recorder) RecordAnalysis(ctx context.Context, analysis *brand.CompetitorAnalysis) Receipt {
	primary := analysis.PrimaryBrand
	receipt := r.saveAndArchive(ctx, primary)

	names := make([]string, 0, len(analysis.Competitors))
	for _, comp := range analysis.Competitors {
		r.saveAndArchive(ctx, comp)
		names = append(names, comp.WebsiteURL)
	}

	receipt.MessageID = r.publish(ctx, Event{
		Type:              EventCompetitorAnalyzed,
		WebsiteURL:        primary.WebsiteURL,
		BrandName:         primary.BrandName,
		ExtractionSuccess: primary.ExtractionSuccess,
		TotalProducts:     primary.TotalProducts,
		RecordID:          receipt.RecordID,
		SnapshotURI:       receipt.SnapshotURI,
		SnapshotSHA256:    receipt.SnapshotSHA256,
		Competitors:       names,
	})
	return receipt
}

func (r *Recorder) saveAndArchive(ctx context.Context, bc *brand.Context) Receipt {
	var receipt Receipt
	if r.store != nil {
		id, err := r.store.Save(ctx, bc)
		if err != nil {
			metrics.ObserveRecord(SinkStore, metrics.OutcomeFailure)
			r.logger.Warn("save brand context failed", zap.String("url", bc.WebsiteURL), zap.Error(err))
		} else {
			metrics.ObserveRecord(SinkStore, metrics.OutcomeSuccess)
			receipt.RecordID = id
			bc.AddNote(fmt.Sprintf("Saved to database with ID: %d", id))
		}
	}

	if r.blobs != nil {
		uri, digest, err := r.archive(ctx, bc)
		if err != nil {
			metrics.ObserveRecord(SinkBlob, metrics.OutcomeFailure)
			r.logger.Warn("archive snapshot failed", zap.String("url", bc.WebsiteURL), zap.Error(err))
		} else {
			metrics.ObserveRecord(SinkBlob, metrics.OutcomeSuccess)
			receipt.SnapshotURI = uri
			receipt.SnapshotSHA256 = digest
			r.logger.Debug("snapshot archived", zap.String("url", bc.WebsiteURL), zap.String("uri", uri))
		}
	}
	return receipt
}

func (r *Recorder) archive(ctx context.Context, bc *brand.Context) (string, string, error) {
	path, err := r.snapshotPath(bc.WebsiteURL)
	if err != nil {
		return "", "", err
	}
	data, err := json.Marshal(bc)
	if err != nil {
		return "", "", fmt.Errorf("marshal snapshot: %w", err)
	}
	var digest string
	if r.hasher != nil {
		if digest, err = r.hasher.Hash(data); err != nil {
			return "", "", fmt.Errorf("hash snapshot: %w", err)
		}
	}
	uri, err := r.blobs.PutObject(ctx, path, snapshotContentType, bytes.NewReader(data))
	if err != nil {
		return "", "", fmt.Errorf("put object: %w", err)
	}
	return uri, digest, nil
}

// snapshotPath builds <prefix>/<host>/<id>.json.
func (r *Recorder) snapshotPath(websiteURL string) (string, error) {
	host := brand.Host(websiteURL)
	if host == "" {
		return "", fmt.Errorf("no host in %q", websiteURL)
	}
	id := fmt.Sprintf("%d", r.now().UnixNano())
	if r.ids != nil {
		generated, err := r.ids.NewID()
		if err != nil {
			return "", fmt.Errorf("snapshot id: %w", err)
		}
		id = generated
	}
	prefix := strings.Trim(r.cfg.BlobPrefix, "/")
	if prefix == "" {
		return fmt.Sprintf("%s/%s.json", host, id), nil
	}
	return fmt.Sprintf("%s/%s/%s.json", prefix, host, id), nil
}

func (r *Recorder) publish(ctx context.Context, event Event) string {
	if r.publisher == nil {
		return ""
	}
	event.PublishedAt = r.now()
	id, err := r.publisher.Publish(ctx, r.cfg.Topic, event)
	if err != nil {
		metrics.ObserveRecord(SinkPublisher, metrics.OutcomeFailure)
		r.logger.Warn("publish event failed",
			zap.String("type", event.Type),
			zap.String("url", event.WebsiteURL),
			zap.Error(err),
		)
		return ""
	}
	metrics.ObserveRecord(SinkPublisher, metrics.OutcomeSuccess)
	return id
}

func (r *Recorder) now() time.Time {
	if r.clock == nil {
		return time.Now().UTC()
	}
	return r.clock.Now()
}
