// =============================================================================
// t4bulk - Installer
// =============================================================================
//
// This module creates and updates CMS content from spreadsheet rows.
//
// ROW PIPELINE:
//   1. Validate the reserved columns (content type, section, content id)
//   2. Fetch the content type schema
//   3. Update path (Content ID given):
//        encode elements -> modify
//   4. Create path (no Content ID):
//        create empty item -> encode elements using |id| as the link source
//        -> modify with the id returned by create -> approve if it was negative
//
// ERROR HANDLING:
//   - An invalid row is counted as failed without calling the CMS
//   - Column problems are warnings; the row still goes through
//   - A failed approval is a warning; the row still counts as successful
//   - Nothing stops the batch: every row gets exactly one Outcome
//
// CONCURRENCY:
//   Rows of a sheet are processed in windows of BatchSize rows running
//   concurrently, with BatchDelay between windows. Sheets run one after the
//   other. The list cache and the counters are shared by concurrent rows.
//
// =============================================================================

package installer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmsbulk/t4bulk/internal/elements"
	"github.com/cmsbulk/t4bulk/internal/logger"
	"github.com/cmsbulk/t4bulk/internal/t4"
	"github.com/cmsbulk/t4bulk/internal/types"
	"github.com/cmsbulk/t4bulk/internal/validation"
	"github.com/cmsbulk/t4bulk/pkg/utils"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// API is the CMS surface the installer needs. *t4.Client implements it.
type API interface {
	elements.API
	GetContentType(ctx context.Context, id int) (*t4.ContentType, error)
	CreateContent(ctx context.Context, sectionID int, req t4.CreateRequest) (*t4.CreateResult, error)
	ModifyContent(ctx context.Context, contentID, sectionID int, req t4.ModifyRequest, lang string) (*t4.ModifyResult, error)
	ApproveContent(ctx context.Context, contentID, sectionID int) (*t4.ApproveResult, error)
}

// SheetSource provides sheets by name. *xlsxparser.Workbook implements it.
type SheetSource interface {
	Sheet(name string) (*types.Sheet, error)
}

// =============================================================================
// INSTALLER STRUCTURE
// =============================================================================

// Options configures an Installer.
type Options struct {
	// Language is sent with create and modify calls.
	Language string

	// MediaDir is where media file names are resolved.
	MediaDir string

	// BatchSize is the number of rows processed concurrently.
	BatchSize int

	// BatchDelay is the pause between two windows of rows.
	BatchDelay time.Duration

	// Logger receives progress messages. Nil discards them.
	Logger *logger.Logger
}

// Installer processes rows for one run. Its list cache and run counters
// live as long as the Installer.
type Installer struct {
	api        API
	normalizer *elements.Normalizer
	opts       Options
	log        *logger.Logger

	total Counters
}

// New creates an Installer for one run.
func New(api API, opts Options) *Installer {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	if opts.Language == "" {
		opts.Language = "en"
	}

	cache := elements.NewListCache(api)
	return &Installer{
		api:        api,
		normalizer: elements.NewNormalizer(api, cache, opts.MediaDir, opts.Language, opts.Logger),
		opts:       opts,
		log:        opts.Logger,
	}
}

// Totals returns the run-wide counters.
func (in *Installer) Totals() *Counters {
	return &in.total
}

// =============================================================================
// RUN AND SHEET PROCESSING
// =============================================================================

// Run processes the named sheets one after the other. A sheet that cannot
// be read is reported and skipped. The returned error is non-nil only when
// ctx was cancelled.
func (in *Installer) Run(ctx context.Context, source SheetSource, sheetNames []string) (*RunSummary, error) {
	summary := &RunSummary{Started: time.Now()}

	for _, name := range sheetNames {
		if err := ctx.Err(); err != nil {
			summary.Finished = time.Now()
			return summary, err
		}

		in.log.Infof("Processing sheet: %s", name)
		sheet, err := source.Sheet(name)
		if err != nil {
			in.log.Errorf("sheet %q skipped: %v", name, err)
			summary.SheetErrors = append(summary.SheetErrors, SheetError{Sheet: name, Err: err})
			continue
		}

		sheetSummary := in.ProcessSheet(ctx, sheet)
		summary.Sheets = append(summary.Sheets, sheetSummary)
	}

	summary.Success = in.total.Success()
	summary.Errors = in.total.Errors()
	summary.Finished = time.Now()
	return summary, ctx.Err()
}

// ProcessSheet processes every row of sheet through the batcher.
func (in *Installer) ProcessSheet(ctx context.Context, sheet *types.Sheet) SheetSummary {
	log := in.log.With("sheet", sheet.Name)
	log.Infof("Found %d row(s) to process", len(sheet.Rows))

	var counters Counters
	outcomes := make([]Outcome, len(sheet.Rows))
	done := make([]bool, len(sheet.Rows))

	err := utils.Batch(ctx, sheet.Rows, in.opts.BatchSize, in.opts.BatchDelay,
		func(ctx context.Context, i int, row *types.Row) {
			o := in.processRow(ctx, log, sheet.Name, row)
			outcomes[i] = o
			done[i] = true
			counters.Record(o)
			in.total.Record(o)
		})

	// Rows that never started still get an outcome.
	if err != nil {
		for i, row := range sheet.Rows {
			if done[i] {
				continue
			}
			o := failed(sheet.Name, row, "", fmt.Sprintf("not processed: %v", err))
			outcomes[i] = o
			counters.Record(o)
			in.total.Record(o)
		}
	}

	return SheetSummary{
		Sheet:    sheet.Name,
		Success:  counters.Success(),
		Errors:   counters.Errors(),
		Total:    len(sheet.Rows),
		Outcomes: outcomes,
	}
}

// ProcessRow processes a single row and records it in the run counters.
func (in *Installer) ProcessRow(ctx context.Context, sheet string, row *types.Row) Outcome {
	o := in.processRow(ctx, in.log.With("sheet", sheet), sheet, row)
	in.total.Record(o)
	return o
}

// =============================================================================
// ROW PROCESSING
// =============================================================================

func (in *Installer) processRow(ctx context.Context, log *logger.Logger, sheet string, row *types.Row) Outcome {
	o := in.upsert(ctx, log, sheet, row)
	if !o.OK() {
		log.Errorf("row %d: %s", row.Number, o.Message)
	}
	return o
}

func (in *Installer) upsert(ctx context.Context, log *logger.Logger, sheet string, row *types.Row) Outcome {
	// =========================================================================
	// STEP 1: VALIDATE RESERVED COLUMNS
	// =========================================================================

	check := validation.ValidateRow(row)
	if !check.IsValid {
		first := check.FirstError()
		o := failed(sheet, row, first.Field, first.Message)
		o.Value = first.Value
		return o
	}
	target := check.Target

	// =========================================================================
	// STEP 2: FETCH CONTENT TYPE
	// =========================================================================

	ct, err := in.api.GetContentType(ctx, target.ContentTypeID)
	if err != nil {
		return failed(sheet, row, "", fmt.Sprintf("fetching content type %d: %v", target.ContentTypeID, err))
	}
	for _, w := range validation.CheckLengths(row, ct) {
		log.Warnf("row %d: %s (%s)", row.Number, w.Message, w.Field)
	}

	// =========================================================================
	// STEP 3: UPDATE OR CREATE
	// =========================================================================

	if !target.IsCreate() {
		return in.update(ctx, log, sheet, row, ct, target)
	}
	return in.create(ctx, log, sheet, row, ct, target)
}

func (in *Installer) update(ctx context.Context, log *logger.Logger, sheet string, row *types.Row, ct *t4.ContentType, target validation.Target) Outcome {
	elems, issues := in.normalizer.Normalize(ctx, row, ct, elements.Target{
		SectionID: target.SectionID,
		ContentID: target.ContentID,
	})

	res, err := in.api.ModifyContent(ctx, target.ContentID, target.SectionID, t4.ModifyRequest{
		Elements:    elems,
		PublishDate: target.PublishDate,
		ExpiryDate:  target.ExpiryDate,
		ReviewDate:  target.ReviewDate,
	}, in.opts.Language)
	if err == nil && res.ErrorText != "" {
		err = errors.New(res.ErrorText)
	}
	if err != nil {
		o := failed(sheet, row, "", fmt.Sprintf("Failed to modify existing content %d: %v", target.ContentID, err))
		o.Issues = issues
		return o
	}

	log.Successf("row %d: updated content %d. New version: %s", row.Number, target.ContentID, version(res))
	return Outcome{
		Sheet:     sheet,
		Row:       row.Number,
		Status:    StatusSuccess,
		Action:    ActionUpdated,
		ContentID: target.ContentID,
		Issues:    issues,
	}
}

func (in *Installer) create(ctx context.Context, log *logger.Logger, sheet string, row *types.Row, ct *t4.ContentType, target validation.Target) Outcome {
	created, err := in.api.CreateContent(ctx, target.SectionID, t4.CreateRequest{
		Elements:      map[string]any{},
		ContentTypeID: target.ContentTypeID,
		Language:      in.opts.Language,
		Status:        t4.StatusNew,
		PublishDate:   target.PublishDate,
		ExpiryDate:    target.ExpiryDate,
		ReviewDate:    target.ReviewDate,
	})
	if err == nil && created.ErrorText != "" {
		err = errors.New(created.ErrorText)
	}
	if err != nil {
		return failed(sheet, row, "", fmt.Sprintf("Failed to create content: %v", err))
	}
	if created.ID == 0 {
		return failed(sheet, row, "", "Failed to create initial content item - no ID returned")
	}

	newID := created.ID
	contentID := abs(newID)
	log.Debugf("row %d: created initial content with ID %d", row.Number, newID)

	elems, issues := in.normalizer.Normalize(ctx, row, ct, elements.Target{
		SectionID: target.SectionID,
		ContentID: contentID,
	})

	res, err := in.api.ModifyContent(ctx, newID, target.SectionID, t4.ModifyRequest{Elements: elems}, in.opts.Language)
	if err == nil && res.ErrorText != "" {
		err = errors.New(res.ErrorText)
	}
	if err != nil {
		o := failed(sheet, row, "", fmt.Sprintf("Failed to modify content %d: %v", newID, err))
		o.ContentID = contentID
		o.Issues = issues
		return o
	}

	o := Outcome{
		Sheet:     sheet,
		Row:       row.Number,
		Status:    StatusSuccess,
		Action:    ActionCreated,
		ContentID: contentID,
		Issues:    issues,
	}
	log.Successf("row %d: created content %d. Version: %s", row.Number, contentID, version(res))

	if newID < 0 {
		o.Approved = in.approve(ctx, log, row, contentID, target.SectionID)
	}
	return o
}

// approve approves a draft. Failures are only logged.
func (in *Installer) approve(ctx context.Context, log *logger.Logger, row *types.Row, contentID, sectionID int) bool {
	res, err := in.api.ApproveContent(ctx, contentID, sectionID)
	if err != nil {
		log.Warnf("row %d: could not approve content %d: %v", row.Number, contentID, err)
		return false
	}
	if res != nil && res.ErrorText != "" {
		log.Warnf("row %d: approval failed for content %d: %s", row.Number, contentID, res.ErrorText)
		return false
	}
	log.Successf("row %d: content %d approved", row.Number, contentID)
	return true
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func failed(sheet string, row *types.Row, field, message string) Outcome {
	return Outcome{
		Sheet:   sheet,
		Row:     row.Number,
		Status:  StatusError,
		Field:   field,
		Message: message,
	}
}

func version(res *t4.ModifyResult) string {
	if res == nil || res.Version == nil {
		return "unknown"
	}
	return fmt.Sprint(res.Version)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
