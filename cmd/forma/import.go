package main

import (
	"context"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

type importStats struct {
	File     string `json:"file"`
	Format   string `json:"format"`
	Mode     string `json:"mode"`
	Assets   int    `json:"assets"`
	Vertices int    `json:"vertices,omitempty"`
	Indices  int    `json:"indices,omitempty"`
	Pixels   int    `json:"pixels,omitempty"`
	Elapsed  string `json:"elapsed"`
}

func importCmd() *cli.Command {
	var (
		file      string
		streamed  bool
		asJSON    bool
		logLevel  string
		logFormat string
	)

	return &cli.Command{
		Name:  "import",
		Usage: "Decode every block of a container and report totals",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to a .fmdl or .fgly container",
				Destination: &file,
				Required:    true,
			},
			&cli.BoolFlag{
				Name:        "stream",
				Usage:       "decode entry by entry instead of one bulk read",
				Destination: &streamed,
			},
			&cli.BoolFlag{Name: "json", Usage: "emit JSON", Destination: &asJSON},
			&cli.StringFlag{Name: "log-level", Destination: &logLevel},
			&cli.StringFlag{Name: "log-format", Destination: &logFormat},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			log := newLogger(cfg, logLevel, logFormat).With("file", file)

			stats := importStats{File: file, Mode: "bulk"}
			if streamed {
				stats.Mode = "stream"
			}
			start := time.Now()

			if isGlyphPath(file) {
				stats.Format = "glyph"
				codec := cfg.glyphCodec()
				if streamed {
					entries, err := codec.ReadTable(file, false)
					if err != nil {
						return err
					}
					blocks, err := codec.StreamBlocks(file, entries, true)
					if err != nil {
						return err
					}
					stats.Assets = len(blocks)
					for _, b := range blocks {
						stats.Pixels += len(b.Pixels)
					}
				} else {
					f, err := codec.ImportAll(file)
					if err != nil {
						return err
					}
					stats.Assets = len(f.Blocks)
					for _, b := range f.Blocks {
						stats.Pixels += len(b.Pixels)
					}
				}
			} else {
				stats.Format = "model"
				codec := cfg.modelCodec()
				if streamed {
					entries, err := codec.ReadTable(file, false)
					if err != nil {
						return err
					}
					blocks, err := codec.StreamBlocks(file, entries, true)
					if err != nil {
						return err
					}
					stats.Assets = len(blocks)
					for _, b := range blocks {
						stats.Vertices += len(b.Vertices)
						stats.Indices += len(b.Indices)
					}
				} else {
					f, err := codec.ImportAll(file)
					if err != nil {
						return err
					}
					stats.Assets = len(f.Blocks)
					for _, b := range f.Blocks {
						stats.Vertices += len(b.Vertices)
						stats.Indices += len(b.Indices)
					}
				}
			}
			stats.Elapsed = time.Since(start).String()

			log.Info("import finished",
				"format", stats.Format,
				"mode", stats.Mode,
				"assets", stats.Assets,
				"elapsed", stats.Elapsed,
			)

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			}
			fmt.Printf("format:   %s\n", stats.Format)
			fmt.Printf("mode:     %s\n", stats.Mode)
			fmt.Printf("assets:   %d\n", stats.Assets)
			if stats.Format == "model" {
				fmt.Printf("vertices: %d\n", stats.Vertices)
				fmt.Printf("indices:  %d\n", stats.Indices)
			} else {
				fmt.Printf("pixels:   %d\n", stats.Pixels)
			}
			fmt.Printf("elapsed:  %s\n", stats.Elapsed)
			return nil
		},
	}
}
