package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kamusis/coursepath/internal/logging"
	"github.com/kamusis/coursepath/internal/server"
	"github.com/kamusis/coursepath/internal/supervisor"
)

var (
	flagServeHost string
	flagServePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommender page and JSON API",
	Long: `Start the HTTP presenter: an interactive page at / with two sliders and the
scatter plot, plus /api/match, /api/centroids, /api/courses, /healthz and
/metrics. The course table is loaded once at startup.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeHost, "host", "", "Listen host (overrides server.host)")
	serveCmd.Flags().IntVar(&flagServePort, "port", 0, "Listen port (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	c := cfg.Config
	if cmd.Flags().Changed("host") {
		c.Server.Host = flagServeHost
	}
	if cmd.Flags().Changed("port") {
		c.Server.Port = flagServePort
	}

	src, err := loadCourses(c)
	if err != nil {
		return err
	}
	cat, err := loadLabels(c)
	if err != nil {
		return err
	}
	srv, err := server.New(src, cat, c)
	if err != nil {
		return fmt.Errorf("cannot start server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: c.Server.ShutdownTimeout,
	})
	httpSrv := srv.HTTPServer()
	tree.AddAPIService(supervisor.NewHTTPServerService(httpSrv, c.Server.ShutdownTimeout))

	if src.Fallback {
		printWarn("", fmt.Sprintf("%s unavailable, serving the built-in course table", src.Path))
	}
	printOK("", fmt.Sprintf("listening on http://%s", httpSrv.Addr))
	logging.Info().Str("addr", httpSrv.Addr).Int("courses", src.Dataset.Len()).Msg("starting supervisor tree")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped: %w", err)
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
	}
	printInfo("", "server stopped")
	return nil
}
