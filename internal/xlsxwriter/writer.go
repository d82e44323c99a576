// =============================================================================
// t4bulk - Template Writer
// =============================================================================
//
// This module writes an empty import workbook for a content type. The sheet
// uses the layout read back by xlsxparser:
//
//   | ContentTypeID | Section ID | Content ID | Publish Date | ... | <element> |
//   |---------------|------------|------------|--------------|-----|-----------|
//   |               |            |            | Plain Text   | ... | <type>    |  row 1
//   | ContentTypeID | Section ID | Content ID | Publish Date | ... | <name>    |  row 2
//
// The ContentTypeID column of the first data row is pre-filled so the sheet
// is ready for rows to be added below it.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/cmsbulk/t4bulk/internal/elements"
	"github.com/cmsbulk/t4bulk/internal/t4"
	"github.com/cmsbulk/t4bulk/internal/types"
)

// maxSheetName is the longest sheet name Excel accepts.
const maxSheetName = 31

// Column widths, in characters.
const (
	widthContentTypeID = 15
	widthID            = 10
	widthDate          = 12
	widthElement       = 20
)

// reservedColumn describes one leading metadata column.
type reservedColumn struct {
	name     string
	dataType string
	width    float64
}

var reservedColumns = []reservedColumn{
	{types.ColumnContentTypeID, "", widthContentTypeID},
	{types.ColumnSectionID, "", widthID},
	{types.ColumnContentID, "", widthID},
	{types.ColumnPublishDate, "Plain Text", widthDate},
	{types.ColumnExpiryDate, "Plain Text", widthDate},
	{types.ColumnReviewDate, "Plain Text", widthDate},
}

// =============================================================================
// TEMPLATE GENERATION
// =============================================================================

// WriteTemplate writes the import template for ct to path.
//
// PARAMETERS:
//   - path: The .xlsx file to create.
//   - ct: The content type whose elements become columns.
//
// RETURNS:
//   - The name of the sheet that was written.
//   - An error if the workbook cannot be built or saved.
func WriteTemplate(path string, ct *t4.ContentType) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SanitizeSheetName(ct.Name)
	if sheet == "" {
		sheet = fmt.Sprintf("Content_%d", ct.ID)
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	typeRow, nameRow, widths := headerRows(ct)

	if err := f.SetSheetRow(sheet, "A1", &typeRow); err != nil {
		return "", fmt.Errorf("failed to write type row: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &nameRow); err != nil {
		return "", fmt.Errorf("failed to write header row: %w", err)
	}
	if err := f.SetCellInt(sheet, "A3", int64(ct.ID)); err != nil {
		return "", fmt.Errorf("failed to write content type id: %w", err)
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return "", err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return "", fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := styleHeader(f, sheet, len(nameRow)); err != nil {
		return "", err
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save template: %w", err)
	}
	return sheet, nil
}

// SanitizeSheetName removes characters Excel rejects in sheet names and
// truncates the result to 31 characters.
func SanitizeSheetName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '*', '/', '\\', '?', ':':
			return -1
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > maxSheetName {
		cleaned = string(runes[:maxSheetName])
	}
	return cleaned
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func headerRows(ct *t4.ContentType) (typeRow, nameRow []any, widths []float64) {
	for _, col := range reservedColumns {
		typeRow = append(typeRow, col.dataType)
		nameRow = append(nameRow, col.name)
		widths = append(widths, col.width)
	}
	for _, el := range ct.Elements {
		typeRow = append(typeRow, elements.Kind(el.Type).String())
		nameRow = append(nameRow, el.Name)
		widths = append(widths, widthElement)
	}
	return typeRow, nameRow, widths
}

func styleHeader(f *excelize.File, sheet string, columns int) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	last, err := excelize.CoordinatesToCellName(columns, 2)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A2", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	return nil
}
