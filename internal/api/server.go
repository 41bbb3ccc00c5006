// Package api serves the purchase diary over a JSON HTTP API.
package api

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/shop-diary/internal/model"
	"github.com/Veraticus/shop-diary/internal/purchase"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

const shutdownTimeout = 5 * time.Second

// Committer saves a purchase.
type Committer interface {
	Commit(ctx context.Context, c purchase.Candidate) (*purchase.Result, error)
}

// Reader serves the cached diary lists.
type Reader interface {
	Items(ctx context.Context) ([]model.Item, error)
	Shops(ctx context.Context) ([]model.Shop, error)
	RecentTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
	History(ctx context.Context, search string) ([]purchase.ItemSummary, error)
}

// Server is the HTTP front of the diary.
type Server struct {
	app       *fiber.App
	committer Committer
	reader    Reader
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer builds the fiber app and registers its routes.
func NewServer(committer Committer, reader Reader, opts ...Option) *Server {
	s := &Server{
		committer: committer,
		reader:    reader,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "diary",
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(recover.New())
	s.app.Use(cors.New())
	s.app.Use(s.logRequests)
	s.registerRoutes()

	return s
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")
	api.Get("/items", s.listItems)
	api.Get("/shops", s.listShops)
	api.Get("/transactions", s.listTransactions)
	api.Get("/history", s.listHistory)
	api.Post("/purchases", s.createPurchase)
}

// Listen serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Listen(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP API listening", "addr", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	s.logger.Debug("HTTP request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"duration", time.Since(start))
	return err
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		s.logger.Error("HTTP handler failed", "path", c.Path(), "error", err)
		return c.Status(code).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
