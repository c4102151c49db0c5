// Package contact takes website enquiries, stores them and forwards a copy
// to the support inbox.
package contact

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/edvora/edvora-api/internal/utils/validator"
	"github.com/edvora/edvora-api/pkg/mail"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const mailTimeout = 10 * time.Second

type Handler struct {
	db           *gorm.DB
	mailer       mail.Mailer
	supportEmail string
}

func NewHandler(db *gorm.DB, mailer mail.Mailer, supportEmail string) *Handler {
	return &Handler{db: db, mailer: mailer, supportEmail: supportEmail}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/api/contact", h.Submit)
	app.Get("/api/admin/contact", middleware.RequireAdmin(), h.List)
}

func (h *Handler) Submit(c *fiber.Ctx) error {
	var req model.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.Name == "" || req.Message == "" {
		return apperrors.BadRequest("name and message are required")
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		return err
	}

	msg := &model.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Body:    req.Message,
	}
	if err := h.db.WithContext(c.UserContext()).Create(msg).Error; err != nil {
		return apperrors.SomethingWentWrong
	}

	// Forward asynchronously; the enquiry is already persisted, so a mail
	// outage must not fail the request.
	go h.forward(msg)

	return c.Status(fiber.StatusCreated).JSON(model.MessageResponse{
		Success: true,
		Message: "Thanks for reaching out, we will get back to you soon",
	})
}

func (h *Handler) forward(msg *model.ContactMessage) {
	if h.mailer == nil || h.supportEmail == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
	defer cancel()

	subject := msg.Subject
	if subject == "" {
		subject = "New contact enquiry"
	}
	body := fmt.Sprintf(
		"From: %s <%s>\nPhone: %s\n\n%s",
		msg.Name, msg.Email, msg.Phone, msg.Body,
	)
	if err := h.mailer.SendPlainTextEmail(ctx, h.supportEmail, subject, body); err != nil {
		log.Printf("forwarding contact message %d failed: %v", msg.ID, err)
	}
}

type listResponse struct {
	Success  bool                   `json:"success"`
	Messages []model.ContactMessage `json:"messages"`
}

func (h *Handler) List(c *fiber.Ctx) error {
	var messages []model.ContactMessage
	err := h.db.WithContext(c.UserContext()).
		Order("created_at DESC").
		Limit(200).
		Find(&messages).Error
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	return c.JSON(listResponse{Success: true, Messages: messages})
}
