// Command tileserver serves MVT road-speed and turn-penalty tiles from
// a roadtiles graphstore database.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/labstack/echo/v5"
	"github.com/spf13/cobra"

	"roadtiles/internal/config"
	"roadtiles/internal/graphstore"
	"roadtiles/internal/httpapi"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tileserver",
		Short: "Serve road-routing MVT tiles over HTTP",
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the graphstore and start the HTTP tile server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("tileserver: invalid config: %w", err)
	}

	store, err := graphstore.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("tileserver: open graphstore: %w", err)
	}
	defer store.Close()

	e := echo.New()
	h := httpapi.NewHandler(store, cfg.MinZoom, cfg.MaxZoom)
	h.Register(e)

	banner(cfg)

	if err := e.Start(cfg.Addr); err != nil {
		return fmt.Errorf("tileserver: serve: %w", err)
	}
	return nil
}

func banner(cfg *config.Config) {
	ready := color.New(color.FgGreen, color.Bold)
	detail := color.New(color.FgYellow)

	ready.Fprintf(os.Stdout, "roadtiles ready\n")
	detail.Fprintf(os.Stdout, "  addr:    %s\n", cfg.Addr)
	detail.Fprintf(os.Stdout, "  db:      %s\n", cfg.DBPath)
	detail.Fprintf(os.Stdout, "  zoom:    %d-%d\n", cfg.MinZoom, cfg.MaxZoom)
}
