package blog

import (
	"errors"
	"regexp"
	"strings"

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
	api := app.Group("/api/blog")
	api.Get("/", h.ListPublished)
	api.Get("/:slug", h.GetBySlug)

	admin := app.Group("/api/admin/blog", middleware.RequireAdmin())
	admin.Get("/", h.ListAll)
	admin.Post("/", h.Create)
	admin.Put("/:id", h.Update)
	admin.Delete("/:id", h.Delete)
}

type listResponse struct {
	Success bool             `json:"success"`
	Posts   []model.BlogPost `json:"posts"`
}

type postResponse struct {
	Success bool            `json:"success"`
	Post    *model.BlogPost `json:"post"`
}

func (h *Handler) ListPublished(c *fiber.Ctx) error {
	posts, err := h.repo.ListPublished(c.UserContext())
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	return c.JSON(listResponse{Success: true, Posts: posts})
}

func (h *Handler) GetBySlug(c *fiber.Ctx) error {
	post, err := h.repo.GetBySlug(c.UserContext(), c.Params("slug"))
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound("blog post not found")
	}
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	if !post.Published {
		return apperrors.NotFound("blog post not found")
	}
	return c.JSON(postResponse{Success: true, Post: post})
}

func (h *Handler) ListAll(c *fiber.Ctx) error {
	posts, err := h.repo.ListAll(c.UserContext())
	if err != nil {
		return apperrors.SomethingWentWrong
	}
	return c.JSON(listResponse{Success: true, Posts: posts})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req model.BlogPostInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}
	if req.Title == "" || req.Body == "" {
		return apperrors.BadRequest("title and body are required")
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(req.Title)
	}

	post := &model.BlogPost{
		Slug:      slug,
		Title:     req.Title,
		Excerpt:   req.Excerpt,
		Body:      req.Body,
		CoverURL:  req.CoverURL,
		Author:    req.Author,
		Published: req.Published,
	}
	if err := h.repo.Create(c.UserContext(), post); err != nil {
		return apperrors.BadRequest("could not create post; slug may already exist")
	}

	return c.Status(fiber.StatusCreated).JSON(postResponse{Success: true, Post: post})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.BadRequest("invalid post id")
	}

	var req model.BlogPostInput
	if err := c.BodyParser(&req); err != nil {
		return apperrors.BadRequest("Invalid request body")
	}

	post, err := h.repo.GetByID(c.UserContext(), int64(id))
	if errors.Is(err, ErrNotFound) {
		return apperrors.NotFound("blog post not found")
	}
	if err != nil {
		return apperrors.SomethingWentWrong
	}

	if req.Slug != "" {
		post.Slug = req.Slug
	}
	if req.Title != "" {
		post.Title = req.Title
	}
	post.Excerpt = req.Excerpt
	post.Body = req.Body
	post.CoverURL = req.CoverURL
	post.Author = req.Author
	post.Published = req.Published

	if err := h.repo.Update(c.UserContext(), post); err != nil {
		return apperrors.SomethingWentWrong
	}
	return c.JSON(postResponse{Success: true, Post: post})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperrors.BadRequest("invalid post id")
	}
	if err := h.repo.Delete(c.UserContext(), int64(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.NotFound("blog post not found")
		}
		return apperrors.SomethingWentWrong
	}
	return c.JSON(model.MessageResponse{Success: true, Message: "Post deleted"})
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe slug from a title.
func Slugify(title string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
