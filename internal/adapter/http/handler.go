package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"talentflow/internal/domain"
	"talentflow/internal/usecase"
)

// Handler exposes the simulated backend over HTTP for the UI layer. It is a
// thin translation layer: parse, call, map errors; all behavior lives in the
// backend.
type Handler struct {
	backend *usecase.Backend
}

func NewHandler(b *usecase.Backend) *Handler {
	return &Handler{backend: b}
}

func (h *Handler) Register(app *fiber.App) {
	app.Get("/jobs", h.ListJobs)
	app.Post("/jobs", h.CreateJob)
	app.Get("/jobs/:id", h.GetJob)
	app.Patch("/jobs/:id", h.UpdateJob)
	app.Delete("/jobs/:id", h.DeleteJob)

	app.Get("/candidates", h.ListCandidates)
	app.Post("/candidates", h.CreateCandidate)
	app.Get("/candidates/:id", h.GetCandidate)
	app.Patch("/candidates/:id", h.UpdateCandidate)
	app.Delete("/candidates/:id", h.DeleteCandidate)
	app.Get("/candidates/:id/timeline", h.GetTimeline)

	app.Get("/assessments/:jobId", h.GetAssessment)
	app.Put("/assessments/:jobId", h.PutAssessment)
}

func listParams(c *fiber.Ctx) usecase.ListParams {
	return usecase.ListParams{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Stage:    c.Query("stage"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", 10),
		Sort:     c.Query("sort"),
	}
}

// writeError maps the error taxonomy onto status codes. Every body is
// {"error": message}.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var ve *domain.ValidationError
	var ie *domain.IntegrityError
	switch {
	case errors.As(err, &ve), errors.As(err, &ie):
		status = fiber.StatusBadRequest
	case domain.IsNotFound(err):
		status = fiber.StatusNotFound
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (h *Handler) ListJobs(c *fiber.Ctx) error {
	page, err := h.backend.ListJobs(c.Context(), listParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

func (h *Handler) GetJob(c *fiber.Ctx) error {
	job, err := h.backend.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(job)
}

func (h *Handler) CreateJob(c *fiber.Ctx) error {
	var in usecase.CreateJobInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	job, err := h.backend.CreateJob(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *Handler) UpdateJob(c *fiber.Ctx) error {
	var patch usecase.JobPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	job, err := h.backend.UpdateJob(c.Context(), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(job)
}

func (h *Handler) DeleteJob(c *fiber.Ctx) error {
	if err := h.backend.DeleteJob(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) ListCandidates(c *fiber.Ctx) error {
	page, err := h.backend.ListCandidates(c.Context(), listParams(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(page)
}

func (h *Handler) GetCandidate(c *fiber.Ctx) error {
	cand, err := h.backend.GetCandidate(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cand)
}

func (h *Handler) CreateCandidate(c *fiber.Ctx) error {
	var in usecase.CreateCandidateInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	cand, err := h.backend.CreateCandidate(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cand)
}

func (h *Handler) UpdateCandidate(c *fiber.Ctx) error {
	var patch usecase.CandidatePatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	cand, err := h.backend.UpdateCandidate(c.Context(), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(cand)
}

func (h *Handler) DeleteCandidate(c *fiber.Ctx) error {
	if err := h.backend.DeleteCandidate(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) GetTimeline(c *fiber.Ctx) error {
	events, err := h.backend.GetTimeline(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(events)
}

func (h *Handler) GetAssessment(c *fiber.Ctx) error {
	a, err := h.backend.GetAssessment(c.Context(), c.Params("jobId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(a)
}

func (h *Handler) PutAssessment(c *fiber.Ctx) error {
	var in domain.Assessment
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}
	a, err := h.backend.SaveAssessment(c.Context(), c.Params("jobId"), &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(a)
}
