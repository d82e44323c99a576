// =============================================================================
// t4bulk - Install Command
// =============================================================================
//
// This file defines the 'install' command, which creates or updates content
// items from the rows of a workbook (or CSV export).
//
// COMMAND USAGE:
//   t4bulk install [flags]
//
// FLAGS:
//   --file        : Workbook (.xlsx) or CSV file to read (prompted if empty)
//   --sheet       : Sheet name, "all", or empty for the first sheet (prompted if unset)
//   --batch-size  : Rows sent to the CMS concurrently (default from config)
//   --delay       : Pause between batches (default from config)
//   --media-dir   : Directory media file names are resolved in (default from config)
//
// PROCESSING PIPELINE:
//   1. Load configuration and resolve the access token
//   2. Check the token against the profile endpoint
//   3. Open the input file and select sheets
//   4. Run the installer over the selected sheets
//   5. Print the run summary and write an error log for failed rows
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmsbulk/t4bulk/internal/csvparser"
	"github.com/cmsbulk/t4bulk/internal/installer"
	"github.com/cmsbulk/t4bulk/internal/prompt"
	"github.com/cmsbulk/t4bulk/internal/xlsxparser"
	"github.com/cmsbulk/t4bulk/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	installFile      string
	installSheet     string
	installBatchSize int
	installDelay     time.Duration
	installMediaDir  string
)

// =============================================================================
// INSTALL COMMAND DEFINITION
// =============================================================================

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Create or update content items from a workbook",
	Long: `The install command reads the selected sheets of a workbook and sends
every row to the CMS.

A row with a Content ID updates that item. A row without one creates a new
item in the given section, fills in its elements and approves it when the
CMS created it as a draft.

Rows are processed in concurrent batches. A failing row never stops the
run: it is counted, reported in the summary and written to the error log.`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVarP(&installFile, "file", "f", "", "Workbook (.xlsx) or CSV file to install from")
	installCmd.Flags().StringVarP(&installSheet, "sheet", "s", "", `Sheet to process: a name, "all", or empty for the first sheet`)
	installCmd.Flags().IntVar(&installBatchSize, "batch-size", 0, "Rows processed concurrently (default from config)")
	installCmd.Flags().DurationVar(&installDelay, "delay", -1, "Pause between batches (default from config)")
	installCmd.Flags().StringVar(&installMediaDir, "media-dir", "", "Directory media files are read from (default from config)")

	rootCmd.AddCommand(installCmd)
}

// sheetBook is an opened input file: a workbook or a CSV document.
type sheetBook interface {
	installer.SheetSource
	SheetNames() []string
	Close() error
}

// =============================================================================
// RUN FUNCTION
// =============================================================================

func runInstall(cmd *cobra.Command, args []string) error {
	s, err := setup()
	if err != nil {
		return err
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// STEP 1: AUTHORIZE
	// =========================================================================

	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: OPEN INPUT AND SELECT SHEETS
	// =========================================================================

	if installFile == "" {
		answers, err := s.ask.Ask(prompt.Question{
			Name:        "file",
			Description: "Path to the workbook (.xlsx or .csv)",
			Required:    true,
		})
		if err != nil {
			return err
		}
		installFile = answers["file"]
	}

	book, err := openBook(installFile, cfg.CSVDelimiter)
	if err != nil {
		return err
	}
	defer book.Close()

	available := book.SheetNames()
	choice := installSheet
	if !cmd.Flags().Changed("sheet") && len(available) > 1 {
		s.log.Infof("Available sheets: %s", strings.Join(available, ", "))
		answers, err := s.ask.Ask(prompt.Question{
			Name:        "sheet",
			Description: `Sheet to process (name, "all", or empty for the first)`,
		})
		if err != nil {
			return err
		}
		choice = answers["sheet"]
	}

	sheetNames, err := xlsxparser.SelectSheets(available, choice)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 3: RUN
	// =========================================================================

	opts := installer.Options{
		Language:   cfg.Language,
		MediaDir:   cfg.MediaDir,
		BatchSize:  cfg.BatchSize,
		BatchDelay: cfg.BatchDelay,
		Logger:     s.log,
	}
	if installMediaDir != "" {
		opts.MediaDir = installMediaDir
	}
	if installBatchSize > 0 {
		opts.BatchSize = installBatchSize
	}
	if installDelay >= 0 {
		opts.BatchDelay = installDelay
	}

	in := installer.New(client, opts)
	summary, runErr := in.Run(ctx, book, sheetNames)

	// =========================================================================
	// STEP 4: REPORT
	// =========================================================================

	for _, sheet := range summary.Sheets {
		fmt.Println(sheet.Render())
	}
	fmt.Println(summary.Render())

	if entries := summary.ErrorLogEntries(installFile); len(entries) > 0 {
		path, err := utils.WriteErrorLog(entries, cfg.OutputDir)
		if err != nil {
			s.log.Errorf("could not write error log: %v", err)
		} else {
			s.log.Warnf("Error log written to %s", path)
		}
	}

	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	return nil
}

// openBook opens path as a CSV document or an xlsx workbook.
func openBook(path, delimiter string) (sheetBook, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("input file not found: %s", path)
	}
	if csvparser.IsCSV(path) {
		return csvparser.Open(path, delimiter), nil
	}
	wb, err := xlsxparser.Open(path)
	if err != nil {
		return nil, err
	}
	return wb, nil
}

var (
	_ sheetBook = (*xlsxparser.Workbook)(nil)
	_ sheetBook = (*csvparser.Document)(nil)
)
