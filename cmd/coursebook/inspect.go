package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsawler/coursebook"
	"github.com/tsawler/coursebook/book"
	"github.com/tsawler/coursebook/cartridge"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [archive]",
	Short: "Show what an export of the archive would contain",
	Long: `Decodes a course archive and reports the book an export would
produce: the course title, the grouping, every document with its item
count, and the attachments that would or would not embed. Nothing is
written.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	filename := args[0]

	format, err := detectFormat(filename)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", filename, err)
	}
	cmd.Printf("format: %s\n", format)
	if format != cartridge.CourseCartridge {
		return fmt.Errorf("%s does not contain a course manifest", filename)
	}

	exp := coursebook.Open(filename)
	defer exp.Cleanup()

	set, err := exp.Templates()
	if err != nil {
		return fmt.Errorf("inspect %s: %w", filename, err)
	}

	title := set.Title
	if title == "" {
		title = "(untitled)"
	}
	cmd.Printf("title: %s\n", title)

	byContent, err := exp.SortByContent()
	if err != nil {
		return err
	}
	if byContent {
		cmd.Println("grouping: by content type")
	} else {
		cmd.Println("grouping: by module")
	}

	cmd.Printf("documents: %d\n", len(set.Documents()))
	for _, entry := range set.TOC.Content.(*book.TOC).Entries {
		cmd.Printf("  %-40s %d items\n", entry.Title, len(entry.Items))
	}

	cmd.Printf("attachments: %d\n", len(set.Files))
	for _, uf := range exp.UnsupportedFiles() {
		cmd.Printf("  not embeddable: %s (%s)\n", uf.Name, uf.MediaType)
	}

	if warnings := exp.Warnings(); len(warnings) > 0 {
		cmd.Println(coursebook.FormatWarnings(warnings))
	}
	return nil
}

// detectFormat classifies the archive by content, not extension.
func detectFormat(filename string) (cartridge.Format, error) {
	f, err := os.Open(filename)
	if err != nil {
		return cartridge.Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return cartridge.Unknown, err
	}
	return cartridge.DetectFromReader(f, info.Size())
}
