package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-usermgmt/internal/web"
	"github.com/goliatone/go-usermgmt/pkg/renderers/vanilla"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server for the user management page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listen != "" {
				a.cfg.Server.ListenAddr = listen
			}
			handler, err := a.webHandler()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, handler)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on (overrides server.listen_addr)")
	return cmd
}

func (a *app) webHandler() (http.Handler, error) {
	theme, err := web.LoadTheme(a.cfg.UI.ThemeVariant)
	if err != nil {
		return nil, err
	}
	renderer, err := vanilla.New(
		vanilla.WithTemplatesDir(a.cfg.UI.TemplatesDir),
		vanilla.WithValidatePath(web.ValidatePath),
	)
	if err != nil {
		return nil, err
	}
	srv, err := web.New(a.users,
		web.WithRenderer(renderer),
		web.WithRegistry(a.registry),
		web.WithTheme(theme),
		web.WithMetrics(a.metrics),
		web.WithLogger(a.logger),
		web.WithPageSizes(a.cfg.UI.PageSize, a.cfg.UI.CompactPageSize),
	)
	if err != nil {
		return nil, err
	}
	return srv.Routes(), nil
}

func (a *app) serve(ctx context.Context, handler http.Handler) error {
	server := &http.Server{
		Addr:              a.cfg.Server.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().
			Str("addr", server.Addr).
			Str("api", a.cfg.API.BaseURL).
			Msg("server started")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("cli: serve: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("cli: shutdown: %w", err)
	}
	return nil
}
