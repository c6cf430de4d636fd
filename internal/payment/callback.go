package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hti-gh/applicant-portal/pkg/config"
	appErrors "github.com/hti-gh/applicant-portal/pkg/errors"
	"github.com/hti-gh/applicant-portal/pkg/logger"
)

// Callback is a short-lived loopback server that catches the gateway's
// redirect after checkout. Its URL is handed to the gateway as the
// redirectUrl of the payment request.
type Callback struct {
	cfg    config.PaymentConfig
	logger *zap.Logger

	server  *http.Server
	results chan string
}

// NewCallback constructs the redirect-capture server.
func NewCallback(cfg config.PaymentConfig, zl *zap.Logger) *Callback {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &Callback{cfg: cfg, logger: zl, results: make(chan string, 1)}
}

// URL returns the redirect URL to register with the gateway.
func (c *Callback) URL() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", c.cfg.RedirectPort, c.cfg.RedirectPath)
}

// Start launches the server in the background.
func (c *Callback) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(c.logger))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET(c.cfg.RedirectPath, func(ctx *gin.Context) {
		invoice := ctx.Query("invoiceNumber")
		select {
		case c.results <- invoice:
		default:
		}
		ctx.String(http.StatusOK, "Payment received. You can return to the portal window.")
	})

	c.server = &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", c.cfg.RedirectPort),
		Handler: r,
	}

	go func() {
		if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Warn("redirect server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until the gateway redirects back or the timeout elapses,
// returning the invoice number carried on the redirect.
func (c *Callback) Wait(ctx context.Context) (string, error) {
	timeout := c.cfg.RedirectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	select {
	case invoice := <-c.results:
		return invoice, nil
	case <-time.After(timeout):
		return "", appErrors.New("REDIRECT_TIMEOUT", 0, "timed out waiting for the payment redirect")
	case <-ctx.Done():
		return "", appErrors.Wrap(ctx.Err(), appErrors.ErrNetwork.Code, 0, "cancelled while waiting for the payment redirect")
	}
}

// Shutdown stops the server gracefully.
func (c *Callback) Shutdown(ctx context.Context) {
	if c.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.server.Shutdown(shutdownCtx); err != nil {
		c.logger.Warn("redirect server shutdown failed", zap.Error(err))
	}
}
