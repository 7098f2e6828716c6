package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/pipeline"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/store"
)

var (
	batchFile  string
	batchLimit int
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run audits for every job in a YAML job file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		jobs, err := loadJobFile(batchFile)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		p := pipeline.New(cfg)

		return processBatch(ctx, jobs, batchLimit, cfg.Batch.MaxConcurrentRuns, st, func(ctx context.Context, job pipeline.Job) (*model.Run, error) {
			return p.Run(ctx, job)
		})
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "YAML file with a jobs list (required)")
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of jobs to process (0 = all)")
	_ = batchCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(batchCmd)
}

// jobFile is the on-disk shape of a batch job list.
type jobFile struct {
	Jobs []pipeline.Job `yaml:"jobs"`
}

func loadJobFile(path string) ([]pipeline.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: read job file %s", path)
	}
	var f jobFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "batch: parse job file %s", path)
	}
	if len(f.Jobs) == 0 {
		return nil, eris.Errorf("batch: job file %s has no jobs", path)
	}
	return f.Jobs, nil
}

// auditFunc is the callback signature for running one audit job.
type auditFunc func(ctx context.Context, job pipeline.Job) (*model.Run, error)

// processBatch applies limit, then runs jobs concurrently. Individual job
// failures are logged and counted but do not abort the batch.
func processBatch(ctx context.Context, jobs []pipeline.Job, limit, concurrency int, st store.Store, audit auditFunc) error {
	if limit > 0 && len(jobs) > limit {
		jobs = jobs[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("jobs", len(jobs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, job := range jobs {
		g.Go(func() error {
			log := zap.L().With(
				zap.String("client", job.Client),
				zap.String("domain", job.Domain),
			)

			result, err := audit(gctx, job)
			if err != nil {
				failed.Add(1)
				log.Error("audit failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			if st != nil {
				if err := st.SaveRun(gctx, result); err != nil {
					log.Warn("failed to save run", zap.Error(err))
				}
			}

			succeeded.Add(1)
			log.Info("audit complete",
				zap.String("run_id", result.ID),
				zap.Float64("onsite_score", result.Scores.Onsite.Score),
				zap.Float64("local_score", result.Scores.Local.Score),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
