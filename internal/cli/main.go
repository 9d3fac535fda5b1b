package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:   "vthumb",
		Short: "Build a PDF thumbnail catalog from a directory of videos",
		Long: "vthumb scans a directory for video files, extracts evenly spaced\n" +
			"thumbnail frames from each one with ffmpeg, and writes a single PDF\n" +
			"catalog of thumbnails and metadata. Files that fail to decode stay in\n" +
			"the catalog with an error label, so one broken video never sinks the run.",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd)
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().StringP("base", "b", "./videos", "Base directory to scan for videos")
	root.Flags().StringP("extension", "e", "", "Comma-separated extensions added to the default set")
	root.Flags().BoolP("keep", "k", false, "Keep extracted thumbnails after the PDF is written")
	root.Flags().IntP("max", "m", 16, "Maximum thumbnails per video")
	root.Flags().StringP("out", "o", "", "Output PDF path (default <base>/<base>.report.<date>.pdf)")
	root.Flags().Int("deadline", 0, "Per-video extraction deadline in seconds (overrides VTHUMB_DEADLINE_SECONDS)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
