package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/j-xsen/Bolt-MuseumOfJaxsen/internal/config"
	"github.com/j-xsen/Bolt-MuseumOfJaxsen/pkg/logger"
	"github.com/spf13/cobra"
)

func galleryCmd() *cobra.Command {
	var (
		refresh bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "gallery [slug]",
		Short: "List the exhibition or show one art piece",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.ContentfulSpaceID == "" || cfg.ContentfulAccessToken == "" {
				return fmt.Errorf("CONTENTFUL_SPACE_ID and CONTENTFUL_ACCESS_TOKEN must be set")
			}
			log := logger.New("museum", cfg.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RequestTimeout)
			defer cancel()

			gallery, closeCache := galleryService(ctx, cfg, log)
			defer closeCache()

			if refresh {
				if err := gallery.Invalidate(ctx); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				piece, err := gallery.GetArtBySlug(ctx, args[0])
				if err != nil {
					return err
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(piece)
			}

			pieces, err := gallery.ListArt(ctx)
			if err != nil {
				return err
			}
			if asJSON {
				return json.NewEncoder(out).Encode(pieces)
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tTITLE\tARTIST\tYEAR\tDIMENSIONS")
			for _, p := range pieces {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", p.Slug, p.Title, p.Artist, p.Year, p.Dimensions)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "drop the cached gallery before reading")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "output as JSON")
	return cmd
}
