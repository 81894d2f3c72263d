package api

import (
	"context"
	"errors"
	"log/slog"

	"concierge/app/config"
	"concierge/app/service/concierge"
	"concierge/app/service/conversation"
	"concierge/app/service/provider"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/do"
)

var _ do.Shutdownable = (*Server)(nil)

type Server struct {
	cfg          *config.Config
	conciergeSvc *concierge.Service
	app          *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	s := &Server{
		cfg:          do.MustInvoke[*config.Config](di),
		conciergeSvc: do.MustInvoke[*concierge.Service](di),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "concierge",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api/concierge", s.requireUser)

	api.Post("/conversation/start", s.startConversation)
	api.Post("/conversation/:id/message", s.sendMessage)
	api.Get("/conversation/:id", s.getConversation)
	api.Delete("/conversation/:id/cancel", s.cancelConversation)
	api.Get("/conversations", s.listConversations)

	api.Get("/services/search", s.searchServices)
	api.Get("/services/:id/details", s.serviceDetails)
	api.Post("/services/:id/estimate", s.estimateCost)

	api.Post("/orders/place", s.placeOrder)
	api.Get("/orders/:id/status", s.orderStatus)
	api.Post("/orders/:id/cancel", s.cancelOrder)
	api.Get("/orders/:id/track", s.trackOrder)
}

func (s *Server) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		_ = s.app.Shutdown()
	}()

	slog.Info("HTTP API listening", "addr", s.cfg.Server.Listen)

	if err := s.app.Listen(s.cfg.Server.Listen); err != nil {
		slog.Error("HTTP server stopped", "error", err)
	}
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requireUser reads the already-authenticated user id. Credential checking
// happens upstream, the concierge only consumes the result.
func (s *Server) requireUser(c *fiber.Ctx) error {
	userID := c.Get("X-User-ID")
	if userID == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing X-User-ID header")
	}

	c.Locals("user_id", userID)

	return c.Next()
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.Is(err, conversation.ErrExpired):
		code = fiber.StatusGone
	case errors.Is(err, concierge.ErrConversationNotFound),
		errors.Is(err, provider.ErrNotFound):
		code = fiber.StatusNotFound
	case errors.Is(err, concierge.ErrNoProviderSelected):
		code = fiber.StatusBadRequest
	}

	if code == fiber.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
