// Package pipeline composes listing extraction and title generation.
//
// A Pipeline holds only read-only dependencies and metrics. Each call runs its
// steps in sequence and returns the first classified error unchanged.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/use-agent/listingkit/llm"
	"github.com/use-agent/listingkit/models"
)

// Extractor returns the products a search for query shows on its first
// result page. *scraper.Scraper implements it.
type Extractor interface {
	Extract(ctx context.Context, query string) ([]models.ProductRecord, error)
}

// Generator sends one built request to the generation endpoint.
// *llm.Client implements it.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (*llm.Result, error)
}

// Pipeline wires an Extractor and a Generator. Either may be nil when the
// caller only needs the other half; calling the missing half fails with an
// INTERNAL_ERROR.
type Pipeline struct {
	extractor Extractor
	generator Generator
	metrics   *Metrics
}

// New creates a Pipeline. metrics may be nil.
func New(extractor Extractor, generator Generator, metrics *Metrics) *Pipeline {
	return &Pipeline{extractor: extractor, generator: generator, metrics: metrics}
}

// Job describes one Run: which halves to execute and their shared input.
type Job struct {
	Input    llm.Input
	Mode     llm.Mode
	Scrape   bool
	Generate bool
}

// Outcome carries whatever a Run produced.
type Outcome struct {
	Products []models.ProductRecord
	Titles   []string
}

// Search runs the extraction half.
func (p *Pipeline) Search(ctx context.Context, keyword string) ([]models.ProductRecord, error) {
	if p.extractor == nil {
		return nil, models.NewError(models.ErrCodeInternal, "extraction is not configured", nil)
	}

	start := time.Now()
	p.metrics.searchStarted()
	records, err := p.extractor.Extract(ctx, keyword)
	p.metrics.searchDone()

	kind := models.KindOf(err)
	p.metrics.observe("search", time.Since(start), kind)
	if err != nil {
		slog.Error("pipeline search failed", "keyword", keyword, "kind", kind, "error", err)
		return nil, err
	}

	p.metrics.addProducts(len(records))
	slog.Info("pipeline search done", "keyword", keyword, "count", len(records))
	return records, nil
}

// Generate builds a request for mode and sends it.
func (p *Pipeline) Generate(ctx context.Context, mode llm.Mode, in llm.Input) ([]string, error) {
	start := time.Now()
	titles, err := p.generate(ctx, mode, in)

	kind := models.KindOf(err)
	p.metrics.observe("generate", time.Since(start), kind)
	if err != nil {
		slog.Error("pipeline generate failed",
			"keyword", in.Keyword,
			"mode", mode.String(),
			"kind", kind,
			"error", err,
		)
		return nil, err
	}

	p.metrics.addTitles(mode.String(), len(titles))
	slog.Info("pipeline generate done", "keyword", in.Keyword, "mode", mode.String(), "count", len(titles))
	return titles, nil
}

func (p *Pipeline) generate(ctx context.Context, mode llm.Mode, in llm.Input) ([]string, error) {
	req, err := llm.Build(mode, in)
	if err != nil {
		return nil, err
	}
	if p.generator == nil {
		return nil, models.NewError(models.ErrCodeInternal, "generation is not configured", nil)
	}
	res, err := p.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Titles, nil
}

// Run executes the requested halves in order: extraction first, then
// generation. It stops at the first error; the Outcome is nil in that case.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Outcome, error) {
	if !job.Scrape && !job.Generate {
		return nil, models.NewError(models.ErrCodeInvalidInput, "job selects neither search nor generation", nil)
	}

	out := &Outcome{}
	if job.Scrape {
		products, err := p.Search(ctx, job.Input.Keyword)
		if err != nil {
			return nil, err
		}
		out.Products = products
	}
	if job.Generate {
		titles, err := p.Generate(ctx, job.Mode, job.Input)
		if err != nil {
			return nil, err
		}
		out.Titles = titles
	}
	return out, nil
}
