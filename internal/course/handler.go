package course

import (
	"errors"

	"github.com/edvora/edvora-api/internal/apperrors"
	"github.com/edvora/edvora-api/internal/middleware"
	"github.com/edvora/edvora-api/internal/model"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api/courses")
	api.Get("/", h.ListPublished)
	api.Get("/:id", h.Get)
	api.Post("/:id/enroll", middleware.RequireAuth(), h.Enroll)

	app.Get("/api/enrollments", middleware.RequireAuth(), h.MyEnrollments)

	admin := app.Group("/api/admin/courses", middleware.RequireAdmin())
	admin.Get("/", h.ListAll)
	admin.Post("/", h.Create)
	admin.Put("/:id", h.Update)
	admin.Delete("/:id", h.Delete)
}

type listResponse struct {
	Success bool           `json:"success"`
	Courses []model.Course `json:"courses"`
}

type courseResponse struct {
	Success bool          `json:"success"`
	Course  *model.Course `json:"course"`
}

type enrollmentResponse struct {
	Success    bool              `json:"success"`
	Enrollment *model.Enrollment `json:"enrollment"`
}

type enrollmentsResponse struct {
	Success     bool               `json:"success"`
	Enrollments []model.Enrollment `json:"enrollments"`
}

func (h *Handler) ListPublished(c *fiber.Ctx) error {
	courses, err := h.repo.ListPublished(c.UserContext())
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	return c.JSON(listResponse{Success: true, Courses: courses})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.BadRequest("invalid course id")
	}
	course, err := h.repo.GetByID(c.UserContext(), int64(id))
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound("course not found")
	}
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	if !course.Published {
		return apperrors.NotFound("course not found")
	}
	return c.JSON(courseResponse{Success: true, Course: course})
}

// Enroll creates a pending enrollment. Free courses activate immediately;
// paid ones stay pending until a payment is captured.
func (h *Handler) Enroll(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.BadRequest("invalid course id")
	}

	course, err := h.repo.GetByID(c.UserContext(), int64(id))
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound("course not found")
	}
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	if !course.Published {
		return apperrors.NotFound("course not found")
	}

	status := model.EnrollmentPending
	if course.PriceInPaise == 0 {
		status = model.EnrollmentActive
	}

	enrollment := &model.Enrollment{
		UserID:   claims.UserID,
		CourseID: course.ID,
		Status:   status,
	}
	if err := h.repo.Enroll(c.UserContext(), enrollment); err != nil {
		if errors.Is(err, ErrAlreadyEnrolled) {
			return apperrors.BadRequest("already enrolled in this course")
		}
		return apperrors.SomethingWentWrong
	}

	return c.Status(fiber.StatusCreated).JSON(enrollmentResponse{Success: true, Enrollment: enrollment})
}

func (h *Handler) MyEnrollments(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	enrollments, err := h.repo.ListEnrollments(c.UserContext(), claims.UserID)
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	return c.JSON(enrollmentsResponse{Success: true, Enrollments: enrollments})
}

func (h *Handler) ListAll(c *fiber.Ctx) error {
	courses, err := h.repo.ListAll(c.UserContext())
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	return c.JSON(listResponse{Success: true, Courses: courses})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req model.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.Title == "" {
		return apperrors.BadRequest("title is required")
	}
	if req.PriceInPaise < 0 {
		return apperrors.BadRequest("price cannot be negative")
	}

	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		PriceInPaise: req.PriceInPaise,
		Published:    req.Published,
	}
	if err := h.repo.Create(c.UserContext(), course); err != nil {
		return apperrors.SomethingWentWrong
	}
	return c.Status(fiber.StatusCreated).JSON(courseResponse{Success: true, Course: course})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.BadRequest("invalid course id")
	}

	var req model.CourseInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.PriceInPaise < 0 {
		return apperrors.BadRequest("price cannot be negative")
	}

	course, err := h.repo.GetByID(c.UserContext(), int64(id))
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound("course not found")
	}
	if err != nil {
		return apperrors.SomethingWentWrong
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	course.Description = req.Description
	course.PriceInPaise = req.PriceInPaise
	course.Published = req.Published

	if err := h.repo.Update(c.UserContext(), course); err != nil {
		return apperrors.SomethingWentWrong
	}
	return c.JSON(courseResponse{Success: true, Course: course})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.BadRequest("invalid course id")
	}
	if err := h.repo.Delete(c.UserContext(), int64(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.NotFound("course not found")
		}
		return apperrors.SomethingWentWrong
	}
	return c.JSON(model.MessageResponse{Success: true, Message: "Course deleted"})
}
