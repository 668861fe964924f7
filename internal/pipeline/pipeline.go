// Package pipeline wires the weekly run end to end: locate report links,
// download and normalize each table, gate on SKU completeness, and send
// exactly one notification with either the archive or the deficiency report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/aggregate"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/catalog"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/config"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/deliver"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/fetch"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/locator"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/normalize"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/notify"
	"github.com/Khangnguyen01/BS-Auto-Weekly-Marketing-Data-Report/internal/report"
)

// Locator resolves report sources to download links.
type Locator interface {
	Locate(ctx context.Context, sources []locator.Source, now time.Time) map[report.Identity]string
}

// Fetcher downloads one raw report table.
type Fetcher interface {
	Fetch(ctx context.Context, link string) (*report.RawTable, error)
}

// CatalogLoader loads one brand's product reference table.
type CatalogLoader interface {
	Load(ctx context.Context, url string, brand report.Brand) (*catalog.Catalog, error)
}

// Packager builds the weekly archive from the normalized tables.
type Packager interface {
	Package(tables []aggregate.Table, week report.Week) (string, func(), error)
}

// Result summarizes one run. Exactly one of the two notification outcomes
// happened: a delivered archive, or a blocked run with the registry attached.
type Result struct {
	RunID    uuid.UUID
	Week     report.Week
	Blocked  bool
	Registry *aggregate.Registry
	Fetched  []report.Identity
	Missing  []report.Identity
}

// Pipeline runs the weekly ingestion-normalization-classification-gate flow.
// Execution is strictly sequential; the authenticated session is acquired
// once by the caller and reused for every download.
type Pipeline struct {
	cfg      *config.Config
	locator  Locator
	fetcher  Fetcher
	catalogs CatalogLoader
	packager Packager
	notifier notify.Notifier

	// now is a clock hook for tests.
	now func() time.Time
}

// New assembles a Pipeline from its collaborators.
func New(cfg *config.Config, loc Locator, f Fetcher, cl CatalogLoader, p Packager, n notify.Notifier) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		locator:  loc,
		fetcher:  f,
		catalogs: cl,
		packager: p,
		notifier: n,
		now:      time.Now,
	}
}

// SetClock overrides the pipeline clock (useful for testing).
func (p *Pipeline) SetClock(now func() time.Time) { p.now = now }

// Run executes one weekly run. The returned error covers infrastructure
// failures only; a gate block is a first-class outcome reported in Result.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	now := p.now()
	res := &Result{RunID: uuid.New(), Week: report.LastCompletedWeek(now)}
	log.Printf("[pipeline] run %s for week %s", res.RunID, res.Week.RangeLabel())

	sources := make([]locator.Source, 0, len(p.cfg.Reports))
	for _, r := range p.cfg.Reports {
		sources = append(sources, locator.Source{DisplayName: r.DisplayName, Identity: r.Identity})
	}

	links := p.locator.Locate(ctx, sources, now)

	catalogs, err := p.loadCatalogs(ctx, sources)
	if err != nil {
		return nil, err
	}

	normalizer := normalize.NewNormalizer(p.cfg.Fx.CADToUSD)

	// Tables stay keyed by identity in source order; no ambient accumulation.
	var tables []aggregate.Table
	for _, src := range sources {
		link, ok := links[src.Identity]
		if !ok {
			res.Missing = append(res.Missing, src.Identity)
			continue
		}

		raw, err := p.fetcher.Fetch(ctx, link)
		if err != nil {
			var fe *fetch.Error
			if errors.As(err, &fe) {
				log.Printf("[pipeline] %s missing this run: %v", src.Identity, fe)
				res.Missing = append(res.Missing, src.Identity)
				continue
			}
			return nil, fmt.Errorf("fetch %s: %w", src.Identity, err)
		}

		rows, err := normalizer.Normalize(raw, src.Identity, catalogs[src.Identity.Brand])
		if err != nil {
			var uie *report.UnknownIdentityError
			if errors.As(err, &uie) {
				log.Printf("[pipeline] skipping %s: %v", src.Identity, err)
				res.Missing = append(res.Missing, src.Identity)
				continue
			}
			return nil, fmt.Errorf("normalize %s: %w", src.Identity, err)
		}

		tables = append(tables, aggregate.Table{Identity: src.Identity, Rows: rows})
		res.Fetched = append(res.Fetched, src.Identity)
	}

	combined, registry := aggregate.Aggregate(tables, p.cfg.IgnoreSKUs)
	log.Printf("[pipeline] aggregated %d rows from %d tables", len(combined), len(tables))

	res.Registry = registry
	if registry.Blocked() {
		res.Blocked = true
		return res, p.notifyBlocked(ctx, registry)
	}

	return res, p.deliverArchive(ctx, tables, res.Week)
}

func (p *Pipeline) loadCatalogs(ctx context.Context, sources []locator.Source) (map[report.Brand]*catalog.Catalog, error) {
	catalogs := make(map[report.Brand]*catalog.Catalog)
	for _, src := range sources {
		brand := src.Identity.Brand
		if _, done := catalogs[brand]; done {
			continue
		}
		url, ok := p.cfg.Catalogs[brand]
		if !ok {
			return nil, fmt.Errorf("no catalog source configured for brand %s", brand)
		}
		cat, err := p.catalogs.Load(ctx, url, brand)
		if err != nil {
			return nil, fmt.Errorf("load catalog for %s: %w", brand, err)
		}
		catalogs[brand] = cat
	}
	return catalogs, nil
}

func (p *Pipeline) notifyBlocked(ctx context.Context, registry *aggregate.Registry) error {
	body, err := deliver.MissingSKUBody(registry)
	if err != nil {
		return err
	}
	log.Printf("[pipeline] gate blocked: %d brands with unresolved SKUs", len(registry.Brands()))
	return p.notifier.Notify(ctx, deliver.MissingSKUSubject, body, "")
}

func (p *Pipeline) deliverArchive(ctx context.Context, tables []aggregate.Table, week report.Week) error {
	archivePath, cleanup, err := p.packager.Package(tables, week)
	if err != nil {
		return fmt.Errorf("package deliverables: %w", err)
	}
	defer cleanup()

	subject := deliver.SuccessSubject(week)
	return p.notifier.Notify(ctx, subject, subject, archivePath)
}
