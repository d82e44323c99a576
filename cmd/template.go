// =============================================================================
// t4bulk - Template Command
// =============================================================================
//
// This file defines the 'template' command, which exports an empty import
// workbook for a content type.
//
// COMMAND USAGE:
//   t4bulk template --content-type <id>
//
// OUTPUT:
//   <output_dir>/<output_format>, by default News_template_20240115_143022.xlsx.
//   The sheet holds the two header rows (element types, column names) and a
//   first data row with the ContentTypeID filled in.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cmsbulk/t4bulk/internal/prompt"
	"github.com/cmsbulk/t4bulk/internal/xlsxwriter"
	"github.com/cmsbulk/t4bulk/pkg/utils"
)

var templateContentType int

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Export an empty import workbook for a content type",
	Long: `The template command fetches a content type and writes a workbook with one
column per element, ready to be filled in and passed to 'install'.`,
	RunE: runTemplate,
}

func init() {
	templateCmd.Flags().IntVarP(&templateContentType, "content-type", "c", 0, "Content type ID to export (prompted if unset)")
	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	s, err := setup()
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	id := templateContentType
	for id <= 0 {
		answers, err := s.ask.Ask(prompt.Question{
			Name:        "content-type",
			Description: "Content type ID",
			Required:    true,
		})
		if err != nil {
			return err
		}
		if id, err = strconv.Atoi(answers["content-type"]); err != nil || id <= 0 {
			s.log.Warnf("%q is not a content type ID", answers["content-type"])
			id = 0
		}
	}

	ct, err := client.GetContentType(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching content type %d: %w", id, err)
	}

	if err := utils.EnsureDir(s.cfg.OutputDir); err != nil {
		return err
	}
	name := utils.GenerateOutputFileName(s.cfg.OutputFormat, ".xlsx", map[string]string{
		"type": ct.Name,
		"id":   strconv.Itoa(ct.ID),
	})
	path := filepath.Join(s.cfg.OutputDir, name)

	sheet, err := xlsxwriter.WriteTemplate(path, ct)
	if err != nil {
		return err
	}
	s.log.Successf("Content type %q (%d elements) exported to %s, sheet %q", ct.Name, len(ct.Elements), path, sheet)
	return nil
}
