package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/navinject/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site, injecting navigation into every HTML response",
	Long: `Starts a local HTTP server for the site directory. Pages are read from
disk on every request and the navigation fragment is fetched and injected fresh,
so edits to pages or the fragment show up on reload.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (defaults to config)")
	serveCmd.Flags().Bool("open", false, "open the site in a browser")
	serveCmd.Flags().String("site", "", "override site directory")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if dir, _ := cmd.Flags().GetString("site"); dir != "" {
		cfg.SiteDir = dir
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Serve.Port = port
	}
	c, err := loadConfig()
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:     c.Serve.Port,
		SiteDir:  c.SiteDir,
		BasePath: c.BasePath,
		AllowAll: c.Serve.AllowAllOrigins,
	}, createInjectorFromConfig(c, logger), logger)

	// Graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown", zap.Error(err))
		}
	}()

	url := fmt.Sprintf("http://localhost:%d%s/", c.Serve.Port, sitePrefix(c.BasePath))
	fmt.Fprintf(os.Stderr, "navinject %s serving %s at %s\n", Version, c.SiteDir, url)
	fmt.Fprintf(os.Stderr, "  Fragment: %s (%s)\n", c.Fragment.Path, c.Fragment.Mode)

	if open, _ := cmd.Flags().GetBool("open"); open {
		openBrowser(url)
	}

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sitePrefix normalizes the base path to "" or "/prefix".
func sitePrefix(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
