// Package llm implements brand.TextStructurer on top of a text generation
// model, plus a disabled fallback used when no model is configured.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/storefront-insights/internal/brand"
	"github.com/JakeFAU/storefront-insights/internal/logging"
)

// Request is a single prompt sent to a Generator.
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int32
	JSON        bool
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Config selects the model. An empty APIKey disables the structurer.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// New returns a Gemini-backed structurer, or Disabled when cfg has no API key.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (brand.TextStructurer, error) {
	logger = logging.OrNop(logger)
	if cfg.APIKey == "" {
		logger.Warn("llm api key not configured; text structuring disabled")
		return Disabled{}, nil
	}
	gen, err := NewGenAIGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return NewStructurer(gen, logger), nil
}

// Structurer implements brand.TextStructurer with a Generator.
type Structurer struct {
	gen    Generator
	logger *zap.Logger
}

var _ brand.TextStructurer = (*Structurer)(nil)

// NewStructurer wraps gen.
func NewStructurer(gen Generator, logger *zap.Logger) *Structurer {
	return &Structurer{gen: gen, logger: logging.OrNop(logger).Named("llm")}
}

// Enabled reports true.
func (s *Structurer) Enabled() bool { return true }

// StructureFAQs extracts question/answer pairs from free text.
func (s *Structurer) StructureFAQs(ctx context.Context, rawText string) ([]brand.FAQ, error) {
	out, err := s.gen.Generate(ctx, Request{
		System:      "You extract structured FAQ data from text. Return only valid JSON.",
		Prompt:      fmt.Sprintf(faqPrompt, brand.Truncate(rawText, 3000)),
		Temperature: 0.1,
		MaxTokens:   1500,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("structure faqs: %w", err)
	}
	var raw []brand.FAQ
	if err := decodeJSON(out, &raw); err != nil {
		return nil, fmt.Errorf("structure faqs: %w", err)
	}
	faqs := make([]brand.FAQ, 0, len(raw))
	for _, f := range raw {
		f.Question = strings.TrimSpace(f.Question)
		f.Answer = strings.TrimSpace(f.Answer)
		if f.Question == "" || f.Answer == "" {
			continue
		}
		faqs = append(faqs, f)
	}
	return faqs, nil
}

// ExtractContactInfo extracts emails, phone numbers and an address.
func (s *Structurer) ExtractContactInfo(ctx context.Context, rawText string) (*brand.ContactInfo, error) {
	out, err := s.gen.Generate(ctx, Request{
		System:      "You extract contact information from text. Return only valid JSON.",
		Prompt:      fmt.Sprintf(contactPrompt, brand.Truncate(rawText, 2000)),
		Temperature: 0.1,
		MaxTokens:   500,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("extract contact info: %w", err)
	}
	var info brand.ContactInfo
	if err := decodeJSON(out, &info); err != nil {
		return nil, fmt.Errorf("extract contact info: %w", err)
	}
	if info.Emails == nil {
		info.Emails = []string{}
	}
	if info.PhoneNumbers == nil {
		info.PhoneNumbers = []string{}
	}
	return &info, nil
}

// EnhanceDescription rewrites the about text as a short professional summary.
// Empty input is returned unchanged.
func (s *Structurer) EnhanceDescription(ctx context.Context, rawAbout, brandName string) (string, error) {
	if strings.TrimSpace(rawAbout) == "" {
		return rawAbout, nil
	}
	forBrand := ""
	if brandName != "" {
		forBrand = " for " + brandName
	}
	out, err := s.gen.Generate(ctx, Request{
		System:      "You write clean, professional brand descriptions.",
		Prompt:      fmt.Sprintf(descriptionPrompt, forBrand, brand.Truncate(rawAbout, 1000)),
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		return rawAbout, fmt.Errorf("enhance description: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// ExtractSocialHandles extracts social profiles on the supported platforms.
func (s *Structurer) ExtractSocialHandles(ctx context.Context, rawText string) ([]brand.SocialHandle, error) {
	out, err := s.gen.Generate(ctx, Request{
		System:      "You extract social media profiles from text. Return only valid JSON.",
		Prompt:      fmt.Sprintf(socialPrompt, brand.Truncate(rawText, 2000)),
		Temperature: 0.1,
		MaxTokens:   800,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("extract social handles: %w", err)
	}
	var raw []brand.SocialHandle
	if err := decodeJSON(out, &raw); err != nil {
		return nil, fmt.Errorf("extract social handles: %w", err)
	}
	known := make(map[brand.Platform]bool, len(brand.Platforms))
	for _, p := range brand.Platforms {
		known[p] = true
	}
	handles := make([]brand.SocialHandle, 0, len(raw))
	for _, h := range raw {
		h.Platform = brand.Platform(strings.ToLower(string(h.Platform)))
		if !known[h.Platform] || h.URL == "" {
			continue
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Similarity scores two brands between 0 and 1. Responses that are not a
// number in that range score 0.
func (s *Structurer) Similarity(ctx context.Context, a, b brand.Summary) (float64, error) {
	aJSON, err := json.Marshal(a)
	if err != nil {
		return 0, fmt.Errorf("encode summary: %w", err)
	}
	bJSON, err := json.Marshal(b)
	if err != nil {
		return 0, fmt.Errorf("encode summary: %w", err)
	}
	out, err := s.gen.Generate(ctx, Request{
		System:      "You analyze brand similarity. Return only a decimal number.",
		Prompt:      fmt.Sprintf(similarityPrompt, aJSON, bJSON),
		Temperature: 0.1,
		MaxTokens:   50,
	})
	if err != nil {
		return 0, fmt.Errorf("similarity: %w", err)
	}
	score := ParseScore(out)
	s.logger.Debug("similarity scored",
		zap.String("a", a.Name),
		zap.String("b", b.Name),
		zap.String("raw", out),
		zap.Float64("score", score),
	)
	return score, nil
}

// SearchTerms proposes search terms for finding competitors.
func (s *Structurer) SearchTerms(ctx context.Context, summary brand.Summary) ([]string, error) {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("encode summary: %w", err)
	}
	out, err := s.gen.Generate(ctx, Request{
		System:      "You generate search terms. Return only a valid JSON array.",
		Prompt:      fmt.Sprintf(searchTermsPrompt, summaryJSON),
		Temperature: 0.3,
		MaxTokens:   200,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("search terms: %w", err)
	}
	var terms []string
	if err := decodeJSON(out, &terms); err != nil {
		return nil, fmt.Errorf("search terms: %w", err)
	}
	cleaned := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned, nil
}

// ParseScore reads a similarity score from model output. Anything that is not
// a finite number within [0, 1] yields 0.
func ParseScore(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(stripFences(raw)), 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > 1 {
		return 0
	}
	return v
}

func decodeJSON(raw string, dst any) error {
	if err := json.Unmarshal([]byte(stripFences(raw)), dst); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}
	return nil
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
