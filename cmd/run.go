package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/peptidehackers/seo-audit-etl-actor/internal/model"
	"github.com/peptidehackers/seo-audit-etl-actor/internal/pipeline"
)

var (
	runClient  string
	runDomain  string
	runDate    string
	runZipURL  string
	runOutDir  string
	runSave    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single audit from a ZIP archive URL",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p := pipeline.New(cfg)

		result, err := p.Run(ctx, pipeline.Job{
			Client:  runClient,
			Domain:  runDomain,
			RunDate: runDate,
			ZipURL:  runZipURL,
		})
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("audit complete",
			zap.String("run_id", result.ID),
			zap.Float64("onsite_score", result.Scores.Onsite.Score),
			zap.Float64("local_score", result.Scores.Local.Score),
		)

		if runSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}
			if err := st.SaveRun(ctx, result); err != nil {
				return eris.Wrap(err, "save run")
			}
			zap.L().Info("run saved", zap.String("run_id", result.ID))
		}

		if runOutDir != "" {
			if err := writeRunDocuments(runOutDir, result); err != nil {
				return err
			}
			zap.L().Info("documents written", zap.String("dir", runOutDir))
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result.Scores)
	},
}

// writeRunDocuments writes the three output documents as pretty-printed JSON
// files in dir.
func writeRunDocuments(dir string, run *model.Run) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create output dir %s", dir)
	}

	docs := map[string]any{
		"normalized_audit.json": run.Audit,
		"scores.json":           run.Scores,
		"etl_manifest.json":     run.Manifest,
	}
	for name, doc := range docs {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return eris.Wrapf(err, "marshal %s", name)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return eris.Wrapf(err, "write %s", name)
		}
	}
	return nil
}

func init() {
	runCmd.Flags().StringVar(&runClient, "client", "", "client name (required)")
	runCmd.Flags().StringVar(&runDomain, "domain", "", "client domain (required)")
	runCmd.Flags().StringVar(&runDate, "run-date", "", "run date, YYYY-MM-DD (required)")
	runCmd.Flags().StringVar(&runZipURL, "zip-url", "", "direct-download URL of the audit ZIP (required)")
	runCmd.Flags().StringVar(&runOutDir, "output", "", "directory to write output documents")
	runCmd.Flags().BoolVar(&runSave, "save", false, "persist the run to the configured store")
	_ = runCmd.MarkFlagRequired("client")
	_ = runCmd.MarkFlagRequired("domain")
	_ = runCmd.MarkFlagRequired("run-date")
	_ = runCmd.MarkFlagRequired("zip-url")
	rootCmd.AddCommand(runCmd)
}
