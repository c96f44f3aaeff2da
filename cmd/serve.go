package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/kozaktomas/face-finder/internal/config"
	"github.com/kozaktomas/face-finder/internal/face"
	"github.com/kozaktomas/face-finder/internal/index"
	"github.com/kozaktomas/face-finder/internal/web"
	"github.com/kozaktomas/face-finder/internal/web/handlers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long: `Start the Face Finder web server.
The server exposes the index and selfie matching over a JSON API so a
browser frontend can upload a selfie and browse the matched photos.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" {
		fmt.Sscanf(envPort, "%d", &port)
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := context.Background()

	fmt.Println("Connecting to Google Drive...")
	dc, err := connectDrive(ctx, cfg)
	if err != nil {
		return err
	}

	store := index.NewStore(cfg.Cache.Path)
	builder := newBuilder(cfg, dc)
	app := handlers.NewApp(cfg, store, builder, dc, face.NewClient(cfg.Face.URL))

	if store.Exists() {
		idx, err := store.Load()
		if err != nil {
			return err
		}
		app.SetIndex(idx)
		fmt.Printf("Loaded %d indexed faces from cache\n", idx.Count())
	} else {
		fmt.Println("No index cache yet; trigger a build via POST /api/v1/index/rebuild")
	}

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(app, port, host)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Starting Face Finder API on http://%s:%d\n", host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
