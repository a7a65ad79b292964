package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

type entryView struct {
	Name   string `json:"name"`
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
}

func listCmd() *cli.Command {
	var (
		file       string
		asJSON     bool
		skipChecks bool
	)

	return &cli.Command{
		Name:  "list",
		Usage: "List the directory entries of a container",
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
				Usage:       "skip the file pre-checks",
				Destination: &skipChecks,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}

			var views []entryView
			if isGlyphPath(file) {
				entries, err := cfg.glyphCodec().ReadTable(file, skipChecks)
				if err != nil {
					return err
				}
				for _, e := range entries {
					views = append(views, entryView{Name: e.Name, Offset: e.Offset, Size: e.Size})
				}
			} else {
				entries, err := cfg.modelCodec().ReadTable(file, skipChecks)
				if err != nil {
					return err
				}
				for _, e := range entries {
					views = append(views, entryView{Name: e.Name, Offset: e.Offset, Size: e.Size})
				}
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}
			fmt.Printf("%-20s %10s %10s\n", "NAME", "OFFSET", "SIZE")
			for _, v := range views {
				fmt.Printf("%-20s %10d %10d\n", v.Name, v.Offset, v.Size)
			}
			return nil
		},
	}
}
