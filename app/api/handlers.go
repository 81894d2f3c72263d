package api

import (
	"bufio"
	"context"
	"encoding/json"

	"concierge/app/service/concierge"
	"concierge/app/service/provider"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type startConversationRequest struct {
	InitialMessage string `json:"initial_message"`
	SessionID      string `json:"session_id"`
}

type sendMessageRequest struct {
	Message       string         `json:"message"`
	ExtractedData map[string]any `json:"extracted_data"`
}

type estimateRequest struct {
	Items           []provider.OrderItem `json:"items"`
	DeliveryAddress map[string]any       `json:"delivery_address"`
}

func (s *Server) startConversation(c *fiber.Ctx) error {
	var req startConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	reply, err := s.conciergeSvc.StartConversation(c.Context(), userID(c), req.SessionID, req.InitialMessage)
	if err != nil {
		return err
	}

	return c.JSON(reply)
}

func (s *Server) sendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	reply, err := s.conciergeSvc.SendMessage(c.Context(), userID(c), c.Params("id"), req.Message, req.ExtractedData)
	if err != nil {
		return err
	}

	return c.JSON(reply)
}

func (s *Server) getConversation(c *fiber.Ctx) error {
	snapshot, err := s.conciergeSvc.GetState(userID(c), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(snapshot)
}

func (s *Server) cancelConversation(c *fiber.Ctx) error {
	if err := s.conciergeSvc.CancelConversation(userID(c), c.Params("id")); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "conversation cancelled"})
}

func (s *Server) listConversations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"conversations": s.conciergeSvc.ListActive(userID(c)),
	})
}

func (s *Server) searchServices(c *fiber.Ctx) error {
	criteria := provider.SearchCriteria{
		Category: provider.Category(c.Query("category")),
		Query:    c.Query("query"),
		Limit:    c.QueryInt("limit"),
	}

	lat := c.QueryFloat("lat")
	lng := c.QueryFloat("lng")
	if lat != 0 || lng != 0 {
		criteria.Location = &provider.Location{Lat: lat, Lng: lng}
	}

	results, err := s.conciergeSvc.SearchServices(c.Context(), criteria)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"results": results,
		"total":   len(results),
	})
}

func (s *Server) serviceDetails(c *fiber.Ctx) error {
	details, err := s.conciergeSvc.ServiceDetails(c.Context(), c.Query("provider"), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(details)
}

func (s *Server) estimateCost(c *fiber.Ctx) error {
	var req estimateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	estimate, err := s.conciergeSvc.EstimateCost(c.Context(), c.Query("provider"), c.Params("id"), req.Items, req.DeliveryAddress)
	if err != nil {
		return err
	}

	return c.JSON(estimate)
}

func (s *Server) placeOrder(c *fiber.Ctx) error {
	var input concierge.PlaceOrderInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	order, err := s.conciergeSvc.PlaceOrder(c.Context(), userID(c), input)
	if err != nil {
		return err
	}

	return c.JSON(order)
}

func (s *Server) orderStatus(c *fiber.Ctx) error {
	update, err := s.conciergeSvc.OrderStatus(c.Context(), c.Query("provider"), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(update)
}

func (s *Server) cancelOrder(c *fiber.Ctx) error {
	ok, err := s.conciergeSvc.CancelOrder(c.Context(), c.Query("provider"), c.Params("id"))
	if err != nil {
		return err
	}

	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "unable to cancel order")
	}

	return c.JSON(fiber.Map{"message": "order cancelled"})
}

// trackOrder streams NDJSON status updates until the order reaches a terminal
// status or the client disconnects.
func (s *Server) trackOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithCancel(context.Background())

	updates, err := s.conciergeSvc.TrackOrder(ctx, c.Query("provider"), c.Params("id"))
	if err != nil {
		cancel()
		return err
	}

	c.Set(fiber.HeaderContentType, "application/x-ndjson")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		enc := json.NewEncoder(w)
		for update := range updates {
			if err := enc.Encode(update); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))

	return nil
}
