package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/ironsheep/profile-picture-extractor/internal/catalog"
	"github.com/ironsheep/profile-picture-extractor/internal/config"
	"github.com/ironsheep/profile-picture-extractor/internal/detection"
	"github.com/ironsheep/profile-picture-extractor/internal/observability"
	"github.com/ironsheep/profile-picture-extractor/internal/ocr"
	"github.com/ironsheep/profile-picture-extractor/internal/pipeline"
	"github.com/ironsheep/profile-picture-extractor/internal/render"
	"github.com/ironsheep/profile-picture-extractor/internal/report"
)

func runCleanup(cfg *config.Config, log *observability.Logger) error {
	log.Info().Msg("cleaning up extracted files")
	n, err := pipeline.Cleanup(cfg.OutputDirs()...)
	log.Info().Int("removed", n).Msg("cleanup finished")
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}
	return nil
}

func runExtraction(ctx context.Context, cfg *config.Config, opts *options, log *observability.Logger, stdout, stderr io.Writer) error {
	picturesDir := cfg.Resolve(cfg.Paths.ProfilePicturesDir)
	previewsDir := cfg.Resolve(cfg.Paths.PreviewsDir)
	tempDir := cfg.Resolve(cfg.Paths.TempDir)

	if err := pipeline.SetupDirectories(picturesDir, previewsDir, tempDir); err != nil {
		return err
	}
	log.Debug().Strs("dirs", []string{picturesDir, previewsDir, tempDir}).Msg("directories ready")

	catOpts := cfg.CatalogOptions()
	catOpts.Log = log.WithComponent("catalog")
	cat, err := catalog.Open(cfg.Database.URL, catOpts)
	if err != nil {
		log.Error().Err(err).Msg("no resumes found or database connection failed")
		return fmt.Errorf("%w: %w", pipeline.ErrCatalogUnavailable, err)
	}
	defer cat.Close()

	enhancer, err := cfg.Enhancer()
	if err != nil {
		return err
	}

	pcfg := pipeline.Config{
		Rasterizer: render.NewFitz(),
		Scorer:     detection.NewScorer(cfg.Layout(), cfg.Criteria()),
		Enhancer:   enhancer,
		Paths: pipeline.Paths{
			ProjectRoot:        cfg.Paths.ProjectRoot,
			ResumesDir:         cfg.Resolve(cfg.Paths.ResumesDir),
			ProfilePicturesDir: picturesDir,
			PreviewsDir:        previewsDir,
			DebugDir:           tempDir,
		},
		DPI:          cfg.Conversion.DPI,
		Workers:      cfg.Processing.Workers,
		DebugOverlay: cfg.Processing.DebugOverlay,
		Logger:       log,
	}
	if cfg.Processing.TextProbe {
		pcfg.Words = ocr.NewWordCounter(cfg.Processing.TextLanguage)
	}
	if opts.progress {
		pcfg.Progress = progressReporter(stderr)
	}

	x, err := pipeline.New(pcfg)
	if err != nil {
		return err
	}

	batch, err := x.Run(ctx, cat)
	if err != nil {
		if errors.Is(err, pipeline.ErrCatalogUnavailable) {
			log.Error().Err(err).Msg("no resumes found or database connection failed")
		}
		return err
	}
	if len(batch.Results) == 0 {
		log.Error().Msg("no resumes found or database connection failed")
		return nil
	}

	reportPath := cfg.Resolve(cfg.Paths.ReportFile)
	if err := report.Write(reportPath, batch.Results); err != nil {
		return err
	}
	log.Info().Str("path", reportPath).Msg("report written")

	report.PrintSummary(stdout, report.Summary{
		Batch:              batch,
		PreviewsDir:        cfg.Paths.PreviewsDir,
		ProfilePicturesDir: cfg.Paths.ProfilePicturesDir,
		ReportPath:         cfg.Paths.ReportFile,
	})
	return nil
}

// progressReporter returns a pipeline progress callback drawing a bar on w.
// The bar is created on the first call, once the record count is known.
func progressReporter(w io.Writer) func(done, total int, r pipeline.Result) {
	var bar *progressbar.ProgressBar
	return func(done, total int, r pipeline.Result) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionSetDescription("extracting"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetItsString("resumes"),
				progressbar.OptionShowIts(),
				progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
			)
		}
		_ = bar.Set(done)
	}
}
