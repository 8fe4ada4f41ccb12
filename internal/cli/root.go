// Package cli implements the profile-extract command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ironsheep/profile-picture-extractor/internal/config"
	"github.com/ironsheep/profile-picture-extractor/internal/observability"
)

// BuildInfo carries the version variables set by ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

type options struct {
	configFile   string
	envFile      string
	cleanup      bool
	workers      int
	progress     bool
	debugOverlay bool
	textProbe    bool
}

// NewRootCommand builds the root command. Unknown flags and positional
// arguments are ignored and the batch runs as usual.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "profile-extract",
		Short: "Extract profile picture candidates from PDF résumés",
		Long: `profile-extract renders the first page of every résumé in the catalog,
saves it as a preview, and crops the region most likely to hold a profile
photo.

Both images are written as <resume id>.png:
  public/resume-previews/   full page previews
  public/profile-pictures/  profile picture candidates

When no region looks like a photo, the top-right corner of the page is saved
for manual review. A JSON report of every record is written to
profile-picture-extraction-report.json.

Configuration is read from --config (YAML), a .env file and the environment
(DATABASE_URL, RESUMES_DIR, PROJECT_ROOT, LOG_LEVEL, LOG_FORMAT,
EXTRACT_WORKERS).`,
		Example: `  profile-extract              Extract profile pictures
  profile-extract --cleanup    Clean up extracted files
  profile-extract --help       Show this help`,
		Args:               cobra.ArbitraryArgs,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},
		SilenceUsage:       true,
		Version:            info.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			log := observability.NewLogger(observability.LogConfig{
				Level:       cfg.Observability.LogLevel,
				Format:      cfg.Observability.LogFormat,
				Output:      cmd.ErrOrStderr(),
				ServiceName: "profile-extract",
			})
			if len(args) > 0 {
				log.Debug().Strs("args", args).Msg("ignoring positional arguments")
			}

			if opts.cleanup {
				return runCleanup(cfg, log)
			}
			return runExtraction(cmd.Context(), cfg, opts, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.SetVersionTemplate(fmt.Sprintf("profile-extract {{.Version}}\n  Build time: %s\n  Git commit: %s\n", info.BuildTime, info.GitCommit))

	f := cmd.Flags()
	f.BoolVarP(&opts.cleanup, "cleanup", "c", false, "delete previously extracted PNG files and exit")
	f.StringVar(&opts.configFile, "config", "", "config file path (default: built-in defaults and environment)")
	f.StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	f.IntVar(&opts.workers, "workers", 0, "number of résumés processed concurrently (overrides config)")
	f.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr")
	f.BoolVar(&opts.debugOverlay, "debug-overlay", false, "write pages with scored candidate boxes to the temp directory")
	f.BoolVar(&opts.textProbe, "text-probe", false, "count words on each profile picture with Tesseract")

	return cmd
}

func loadConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	if opts.envFile != "" {
		if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("workers") {
		cfg.Processing.Workers = opts.workers
	}
	if opts.debugOverlay {
		cfg.Processing.DebugOverlay = true
	}
	if opts.textProbe {
		cfg.Processing.TextProbe = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context, info BuildInfo, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(info)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
