// Package pipeline orchestrates one audit run: fetch the archive, resolve
// its entries through the extractors, score the finished document.
package pipeline

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/archive"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/config"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/dataset"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/fetcher"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/scorer"
)

// debugDumpName is the file the raw download is saved to when it does not
// look like a ZIP, so an operator can inspect what the link actually served.
const debugDumpName = "ZIP_DEBUG.bin"

// Job describes one audit run.
type Job struct {
	Client  string `json:"client" yaml:"client"`
	Domain  string `json:"domain" yaml:"domain"`
	RunDate string `json:"run_date" yaml:"run_date"`
	ZipURL  string `json:"zip_url" yaml:"zip_url"`
}

// Validate checks that all required job fields are present.
func (j Job) Validate() error {
	if j.Client == "" || j.Domain == "" || j.RunDate == "" || j.ZipURL == "" {
		return eris.New("pipeline: job requires client, domain, run_date, and zip_url")
	}
	return nil
}

// Pipeline runs audit jobs. Each run constructs its own document and
// manifest; nothing is shared across runs.
type Pipeline struct {
	fetch      fetcher.Fetcher // nil: resolved per job URL
	extractors []dataset.Extractor
	scorerCfg  config.ScorerConfig
	fetchOpts  fetcher.Options
	workDir    string
}

// New creates a Pipeline from the application config with the default
// extractor registry.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		extractors: dataset.Registry(dataset.DefaultConfig()),
		scorerCfg:  cfg.Scorer,
		fetchOpts: fetcher.Options{
			UserAgent:  cfg.Fetch.UserAgent,
			Timeout:    time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Fetch.MaxRetries,
		},
		workDir: cfg.WorkDir,
	}
}

// WithFetcher overrides URL-based fetcher resolution, primarily for tests.
func (p *Pipeline) WithFetcher(f fetcher.Fetcher) *Pipeline {
	p.fetch = f
	return p
}

// Run executes one job: download, signature check, extraction in registry
// order, scoring. Retrieval failures and a bad archive signature are fatal;
// everything below that degrades into the manifest and the document's
// defaults.
func (p *Pipeline) Run(ctx context.Context, job Job) (*model.Run, error) {
	if err := job.Validate(); err != nil {
		return nil, err
	}

	log := zap.L().With(
		zap.String("client", job.Client),
		zap.String("domain", job.Domain),
	)
	log.Info("starting audit run", zap.String("zip_url", job.ZipURL))

	data, err := p.download(ctx, job.ZipURL)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: download archive")
	}

	ar, err := archive.Open(data)
	if err != nil {
		if eris.Is(err, archive.ErrBadSignature) {
			p.dumpRawBytes(data, log)
			return nil, eris.Wrap(err,
				"pipeline: downloaded file is not a ZIP; check that zip_url is a direct-download link (Drive: use uc?export=download&id=FILE_ID)")
		}
		return nil, eris.Wrap(err, "pipeline: open archive")
	}

	audit := model.NewAudit(model.Meta{
		Client:  job.Client,
		Domain:  job.Domain,
		RunDate: job.RunDate,
	})
	manifest := model.NewManifest()

	for _, ex := range p.extractors {
		ex.Extract(ar, manifest, audit)
	}

	scores := scorer.Compute(audit, p.scorerCfg)

	log.Info("audit run complete",
		zap.Float64("onsite_score", scores.Onsite.Score),
		zap.Float64("local_score", scores.Local.Score),
		zap.Int("manifest_entries", len(manifest)),
	)

	return &model.Run{
		ID:        uuid.New().String(),
		Client:    job.Client,
		Domain:    job.Domain,
		RunDate:   job.RunDate,
		Status:    model.RunStatusComplete,
		Audit:     audit,
		Scores:    scores,
		Manifest:  manifest,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (p *Pipeline) download(ctx context.Context, rawURL string) ([]byte, error) {
	f := p.fetch
	if f == nil {
		var err error
		f, err = fetcher.ForURL(rawURL, p.fetchOpts)
		if err != nil {
			return nil, err
		}
	}

	body, err := f.Download(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	return io.ReadAll(body)
}

// dumpRawBytes saves the failed download for diagnosis. Best effort; the
// signature error is the one that matters.
func (p *Pipeline) dumpRawBytes(data []byte, log *zap.Logger) {
	if p.workDir == "" {
		return
	}
	if err := os.MkdirAll(p.workDir, 0o755); err != nil {
		log.Warn("could not create work dir for debug dump", zap.Error(err))
		return
	}
	path := filepath.Join(p.workDir, debugDumpName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn("could not write debug dump", zap.Error(err))
		return
	}
	log.Info("saved raw download for diagnosis", zap.String("path", path))
}
