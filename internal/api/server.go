// Package api serves the operator-facing admin HTTP surface.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zulandar/switchboard/internal/models"
	"github.com/zulandar/switchboard/internal/provider"
)

// DefaultStoreTimeout bounds the store calls made on behalf of one request.
const DefaultStoreTimeout = 8 * time.Second

// ProviderFactory builds the client used to probe a device's messaging
// provider. Tests substitute a mock.
type ProviderFactory func(dev *models.Device) (provider.Client, error)

// StartOpts holds configuration for the admin API server.
type StartOpts struct {
	DB           *gorm.DB
	Addr         string
	StoreTimeout time.Duration
	Providers    ProviderFactory
	Out          io.Writer
}

// Start launches the admin API server. It blocks until ctx is cancelled,
// then shuts down gracefully.
func Start(ctx context.Context, opts StartOpts) error {
	if opts.DB == nil {
		return fmt.Errorf("api: db is required")
	}
	if opts.Addr == "" {
		opts.Addr = ":8089"
	}

	gin.SetMode(gin.ReleaseMode)
	router := newRouter(opts)

	srv := &http.Server{
		Addr:    opts.Addr,
		Handler: router,
	}

	// Graceful shutdown on context cancellation.
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	if opts.Out != nil {
		fmt.Fprintf(opts.Out, "Switchboard API listening on %s\n", opts.Addr)
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}

// newRouter builds the Gin engine with every route registered. Kept apart
// from Start so tests can drive handlers without a listener.
func newRouter(opts StartOpts) *gin.Engine {
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = DefaultStoreTimeout
	}
	if opts.Providers == nil {
		opts.Providers = func(dev *models.Device) (provider.Client, error) {
			return provider.ForDevice(dev, provider.DefaultTimeout)
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	registerRoutes(router, opts)
	return router
}
