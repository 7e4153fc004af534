package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fpang/gemini-photo-edit/internal/chat"
	"github.com/fpang/gemini-photo-edit/internal/cli"
	"github.com/fpang/gemini-photo-edit/internal/config"
	"github.com/fpang/gemini-photo-edit/internal/logging"
	"github.com/fpang/gemini-photo-edit/internal/metrics"
	"github.com/fpang/gemini-photo-edit/internal/repl"
	"github.com/fpang/gemini-photo-edit/internal/session"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// CLI flags
var (
	imageFlag  string
	promptFlag string
	outputFlag string
	modelFlag  string
	pickFlag   bool
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "photo-edit",
	Short: "Edit photos with natural language using Gemini",
	Long: `photo-edit sends a photo and a plain-language instruction to a Gemini image
model and saves the edited image it returns.

With --image (or --pick) it performs a single edit and exits, asking for the
instruction if --prompt is not given. Without them it starts an interactive
shell where the photo, instruction and result can be changed step by step.

Examples:
  photo-edit -i beach.jpg -p "remove the people in the background" -o beach-clean.png
  photo-edit -i s3://photos/in/cat.png -p "make it a watercolor" -o s3://photos/out/cat.png
  photo-edit --pick
  photo-edit            # interactive mode`,
	SilenceUsage: true,
	RunE:         runMain,
}

var checkCmd = &cobra.Command{
	Use:          "check",
	Short:        "Verify the Gemini API key with one minimal request",
	SilenceUsage: true,
	RunE:         runCheck,
}

func init() {
	rootCmd.Flags().StringVarP(&imageFlag, "image", "i", "", "Photo to edit (local path or s3://bucket/key)")
	rootCmd.Flags().StringVarP(&promptFlag, "prompt", "p", "", "Edit instruction, e.g. 'turn the sky orange'")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Where to save the result (default <name>-edited.png in PHOTO_EDIT_OUTPUT_DIR)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Gemini image model (default from GEMINI_IMAGE_MODEL or "+chat.DefaultImageModel+")")
	rootCmd.Flags().BoolVar(&pickFlag, "pick", false, "Choose the photo with the system file dialog")
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// logOutput receives log lines and the metrics stream.
var logOutput io.Writer = os.Stderr

// setup loads configuration and applies the ambient settings shared by all commands.
func setup() config.Config {
	logging.InitWithLevel(os.Getenv(config.EnvLogLevel), logOutput)
	cfg := config.Load()
	logging.InitWithLevel(cfg.LogLevel, logOutput)

	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	cfg.CheckModel()
	if cfg.MetricsEnabled {
		metrics.SetOutput(logOutput)
	} else {
		metrics.SetOutput(io.Discard)
	}
	return cfg
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg := setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	editor := cli.NewEditor(ctx, cfg)
	ctrl := session.New(editor)
	store := &cli.S3{}

	oneShot := imageFlag != "" || pickFlag

	logging.NewStartupLogger("photo-edit").
		Version(version).
		Feature("apiKey", editor.Ready() == nil).
		Feature("metrics", cfg.MetricsEnabled).
		Feature("interactive", !oneShot).
		Config("model", editor.Model()).
		Config("baseURL", cfg.BaseURL).
		Config("timeout", cfg.RequestTimeout.String()).
		Config("outputDir", cfg.OutputDir).
		InitDuration(time.Since(start)).
		Log()

	if !oneShot {
		return repl.New(&repl.Config{
			In:         os.Stdin,
			Out:        os.Stdout,
			Err:        os.Stderr,
			Controller: ctrl,
			Model:      editor.Model(),
			OutputDir:  cfg.OutputDir,
			S3:         store,
		}).Run(ctx)
	}

	return runOneShot(ctx, ctrl, cfg, editor.Model(), store)
}

// runOneShot performs a single edit and saves the result.
func runOneShot(ctx context.Context, ctrl *session.Controller, cfg config.Config, model string, store *cli.S3) error {
	path := imageFlag
	if path == "" {
		picked, err := cli.PickImage()
		if err != nil {
			return err
		}
		path = picked
	}

	file, err := cli.LoadSource(ctx, path, store)
	if err != nil {
		return err
	}
	if err := ctrl.LoadImageFile(file); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %s (%s, %s)\n", file.Name(), file.Dimensions(), cli.FormatBytes(len(file.Data)))

	instruction := promptFlag
	if instruction == "" {
		instruction, err = cli.PromptForInstruction(bufio.NewReader(os.Stdin), os.Stderr)
		if err != nil {
			return fmt.Errorf("no instruction given: %w", err)
		}
	}
	ctrl.SetInstruction(instruction)

	sub, err := ctrl.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Editing with %s...\n", model)

	select {
	case <-sub.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	snap := ctrl.Snapshot()
	if snap.Phase == session.PhaseFailed {
		return errors.New(snap.ErrorMessage)
	}

	dest, shareURL, err := cli.SaveResult(ctx, snap.Result, outputFlag, cfg.OutputDir, snap.SourceName, store)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Saved to %s\n", dest)
	if shareURL != "" {
		fmt.Fprintf(os.Stdout, "Share link: %s\n", shareURL)
	}
	log.Debug().Str("submission", sub.ID).Str("destination", dest).Msg("One-shot edit finished")
	return nil
}

// runCheck validates the API key against the configured model.
func runCheck(cmd *cobra.Command, args []string) error {
	cfg := setup()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	editor := cli.NewEditor(ctx, cfg)
	if err := editor.ValidateKey(ctx); err != nil {
		return errors.New(cli.DescribeValidationError(err))
	}
	fmt.Fprintf(os.Stdout, "API key is valid for %s\n", editor.Model())
	return nil
}
