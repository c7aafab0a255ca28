package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/coursebook"
)

var (
	exportOut        string
	exportByContent  bool
	exportLanguage   string
	exportAuthor     string
	exportIdentifier string
	exportCover      string
)

var exportCmd = &cobra.Command{
	Use:   "export [archive]",
	Short: "Export a course archive as an EPUB book",
	Long: `Exports a course cartridge archive as a single EPUB book.

The book is grouped by module when the course defines modules,
otherwise by content type. Output lands in the directory given with
--out, named after the course title and the export time.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", ".", "output directory")
	exportCmd.Flags().BoolVar(&exportByContent, "by-content", false, "group content by type even when the course has modules")
	exportCmd.Flags().StringVar(&exportLanguage, "language", "en", "book language tag")
	exportCmd.Flags().StringVar(&exportAuthor, "author", "", "book author")
	exportCmd.Flags().StringVar(&exportIdentifier, "identifier", "", "publication identifier (default: a generated urn:uuid)")
	exportCmd.Flags().StringVar(&exportCover, "cover", "", "cover image file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	exp := coursebook.Open(args[0]).Language(exportLanguage)
	if exportByContent {
		exp = exp.ByContent()
	}
	if exportAuthor != "" {
		exp = exp.Author(exportAuthor)
	}
	if exportIdentifier != "" {
		exp = exp.Identifier(exportIdentifier)
	}
	if exportCover != "" {
		img, err := os.ReadFile(exportCover)
		if err != nil {
			return fmt.Errorf("read cover: %w", err)
		}
		exp = exp.Cover(img)
	}

	path, warnings, err := exp.WriteEPUB(exportOut)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	cmd.Printf("wrote %s\n", path)
	return nil
}
