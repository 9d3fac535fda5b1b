package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xdream/vthumb/internal/config"
	"github.com/xdream/vthumb/internal/logging"
	"github.com/xdream/vthumb/internal/pipeline"
)

func run(cmd *cobra.Command) error {
	base, _ := cmd.Flags().GetString("base")
	extCSV, _ := cmd.Flags().GetString("extension")
	keep, _ := cmd.Flags().GetBool("keep")
	maxN, _ := cmd.Flags().GetInt("max")
	out, _ := cmd.Flags().GetString("out")
	deadlineSec, _ := cmd.Flags().GetInt("deadline")

	envCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logging.New(envCfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	if deadlineSec <= 0 {
		deadlineSec = envCfg.DeadlineSec
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := pipeline.Config{
		BaseDir:     base,
		Extensions:  splitExtensions(extCSV),
		MaxThumbs:   maxN,
		Deadline:    time.Duration(deadlineSec) * time.Second,
		OutputPDF:   out,
		Keep:        keep,
		FFmpegPath:  envCfg.FFmpegPath,
		FFprobePath: envCfg.FFprobePath,
		Logger:      log,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}

func splitExtensions(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	exts := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			exts = append(exts, p)
		}
	}
	return exts
}
