package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/forma3d/forma/pkg/container/glyph"
)

type headerView struct {
	File       string `json:"file"`
	Format     string `json:"format"`
	ScaleCode  uint8  `json:"scale_code"`
	EntryCount uint32 `json:"entry_count"`
	TableBytes uint32 `json:"table_bytes"`
	BlockBytes uint32 `json:"block_bytes"`
}

func isGlyphPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), glyph.Extension)
}

func inspectCmd() *cli.Command {
	var (
		file       string
		asJSON     bool
		skipChecks bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Decode and print a container header without touching the payload",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to a .fmdl or .fgly container",
				Destination: &file,
				Required:    true,
			},
			&cli.BoolFlag{Name: "json", Usage: "emit JSON", Destination: &asJSON},
			&cli.BoolFlag{
				Name:        "skip-checks",
				Usage:       "skip the file pre-checks (extension, size window)",
				Destination: &skipChecks,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			view := headerView{File: file}
			if isGlyphPath(file) {
				h, err := cfg.glyphCodec().ReadHeader(file, skipChecks)
				if err != nil {
					return err
				}
				view.Format = "glyph"
				view.ScaleCode = h.Oversample
				view.EntryCount = h.EntryCount
				view.TableBytes = h.TableBytes
				view.BlockBytes = h.BlockBytes
			} else {
				h, err := cfg.modelCodec().ReadHeader(file, skipChecks)
				if err != nil {
					return err
				}
				view.Format = "model"
				view.ScaleCode = h.ScaleCode
				view.EntryCount = h.EntryCount
				view.TableBytes = h.TableBytes
				view.BlockBytes = h.BlockBytes
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			fmt.Printf("file:        %s\n", view.File)
			fmt.Printf("format:      %s\n", view.Format)
			fmt.Printf("scale code:  %d\n", view.ScaleCode)
			fmt.Printf("entries:     %d\n", view.EntryCount)
			fmt.Printf("table bytes: %d\n", view.TableBytes)
			fmt.Printf("block bytes: %d\n", view.BlockBytes)
			return nil
		},
	}
}
