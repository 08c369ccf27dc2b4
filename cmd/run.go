package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"ocrdesk/internal/controller"
	"ocrdesk/internal/download"
	"ocrdesk/internal/models"
	"ocrdesk/internal/ocrapi"
)

var (
	runOCRLang     string
	runTranslateTo string
	runExports     []string
	runAudio       bool
	runGender      string
	runTone        string
	runSummary     string
	runOutDir      string
	runVerbose     bool
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Extract text from a single image or PDF",
	Long: "Select FILE, send it to the OCR service, print the result and run the requested " +
		"exports, audio generation and summary. Generated files are written to --out.",
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

func init() {
	RootCmd.AddCommand(runCmd)
	f := runCmd.Flags()
	f.StringVar(&runOCRLang, "ocr-lang", models.DefaultOCRLang, "OCR language code")
	f.StringVar(&runTranslateTo, "translate-to", "", "Translation target code (empty for none)")
	f.StringSliceVar(&runExports, "export", nil, "Export formats to download (txt, docx)")
	f.BoolVar(&runAudio, "audio", false, "Generate an MP3 of the extracted text")
	f.StringVar(&runGender, "gender", "male", "Voice gender for --audio")
	f.StringVar(&runTone, "tone", "neutral", "Voice tone for --audio")
	f.StringVar(&runSummary, "summary", "", "Summarize the text (brief, detailed, bullet)")
	f.StringVar(&runOutDir, "out", "", "Directory for generated files (defaults to the configured downloads dir)")
	f.BoolVarP(&runVerbose, "verbose", "v", false, "Log requests and saved files")
}

// writerNotifier prints user notices to w.
type writerNotifier struct {
	w io.Writer
}

func (n writerNotifier) Notify(message string) {
	fmt.Fprintf(n.w, "! %s\n", message)
}

func runFile(cmd *cobra.Command, args []string) error {
	if !runVerbose {
		log.SetOutput(io.Discard)
	}
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	opts := models.ProcessingOptions{OCRLang: runOCRLang, TranslateTo: runTranslateTo}
	if err := opts.Validate(); err != nil {
		return err
	}
	formats := make([]models.ExportFormat, 0, len(runExports))
	for _, raw := range runExports {
		format, err := models.ParseExportFormat(raw)
		if err != nil {
			return err
		}
		formats = append(formats, format)
	}
	voice := models.VoiceOptions{Gender: runGender, Tone: runTone}
	if runAudio {
		if err := voice.Validate(); err != nil {
			return err
		}
	}
	if runSummary != "" {
		if _, err := models.ValidateSummaryMode(runSummary); err != nil {
			return err
		}
	}

	outDir := runOutDir
	if outDir == "" {
		outDir = cfg.Downloads.Dir
	}
	downloader := download.NewDirDownloader(outDir)
	ctrl := controller.New(ocrapi.NewClient(cfg.Upstream.BaseURL), downloader,
		controller.WithNotifier(writerNotifier{w: cmd.ErrOrStderr()}))
	defer ctrl.Wait()

	candidate, err := controller.CandidateFromPath(args[0])
	if err != nil {
		return err
	}
	if _, err := ctrl.SelectFile(candidate); err != nil {
		return err
	}

	ctx := context.Background()
	result, err := ctrl.Process(ctx, opts)
	if err != nil {
		return err
	}
	if result == nil {
		return errors.New("nothing was processed")
	}

	out := cmd.OutOrStdout()
	view := ctrl.View()
	fmt.Fprintf(out, "%s\n%s\n\n%s\n", view.ResultTitle, view.Badge, view.ResultText)

	var errs []error
	for _, format := range formats {
		if err := ctrl.Export(ctx, format); err != nil {
			errs = append(errs, err)
		}
	}
	if runAudio {
		if err := ctrl.GenerateAudio(ctx, voice.Gender, voice.Tone); err != nil {
			errs = append(errs, err)
		}
	}
	if runSummary != "" {
		if err := ctrl.GenerateSummary(ctx, runSummary); err != nil {
			errs = append(errs, err)
		} else if s := ctrl.Snapshot().Summary; s != nil {
			fmt.Fprintf(out, "\nSummary (%s)\n%s\n", s.Mode, s.Text)
		}
	}
	for _, path := range downloader.Saved() {
		fmt.Fprintf(out, "saved %s\n", path)
	}
	return errors.Join(errs...)
}
