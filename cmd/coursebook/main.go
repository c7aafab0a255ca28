// Command coursebook exports course cartridge archives as EPUB books.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "coursebook",
	Short: "Export course cartridges as EPUB books",
	Long: `coursebook turns course cartridge archives (.imscc, or .zip with a
course manifest) into EPUB books, one self-contained file per course.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
