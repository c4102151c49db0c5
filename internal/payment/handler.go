package payment

import (
	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/payments", middleware.RequireAuth())
	api.Post("/order", h.CreateOrder)
	api.Post("/verify", h.VerifyPayment)
}

type paymentResponse struct {
	Success bool           `json:"success"`
	Payment *model.Payment `json:"payment"`
}

func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req model.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil || req.EnrollmentID == 0 {
		return apperrors.BadRequest("enrollmentId is required")
	}

	resp, err := h.service.CreateOrder(c.UserContext(), claims.UserID, req.EnrollmentID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *Handler) VerifyPayment(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var req model.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return apperrors.BadRequest("razorpayOrderId, razorpayPaymentId and razorpaySignature are required")
	}

	payment, err := h.service.VerifyPayment(c.UserContext(), claims.UserID, &req)
	if err != nil {
		return err
	}
	return c.JSON(paymentResponse{Success: true, Payment: payment})
}
