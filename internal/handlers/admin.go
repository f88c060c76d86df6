package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"supportbot/internal/chat"
	"supportbot/internal/config"
	"supportbot/internal/db"
	"supportbot/internal/models"
)

const dashboardUnansweredLimit = 50

// LinkChecker reports whether the links shown to visitors still respond.
type LinkChecker interface {
	Results() []models.LinkStatus
	CheckAll(ctx context.Context) []models.LinkStatus
}

// AdminHandler serves the staff dashboard.
type AdminHandler struct {
	db    *db.DB
	svc   *chat.Service
	links LinkChecker
	cfg   *config.Config
}

// NewAdminHandler creates a new admin handler. database and links may be nil
// when analytics or link checking are disabled.
func NewAdminHandler(database *db.DB, svc *chat.Service, links LinkChecker, cfg *config.Config) *AdminHandler {
	return &AdminHandler{db: database, svc: svc, links: links, cfg: cfg}
}

// Dashboard renders question statistics and the unanswered question list.
func (h *AdminHandler) Dashboard(c fiber.Ctx) error {
	data := MergeBranding(fiber.Map{
		"User":             c.Locals("user"),
		"Topics":           h.svc.Topics(),
		"EntryCount":       h.svc.Store().Len(),
		"AnalyticsEnabled": h.db != nil,
		"LinkCheckEnabled": h.links != nil,
	}, h.cfg)

	if h.links != nil {
		data["Links"] = h.links.Results()
	}

	if h.db != nil {
		lookups, err := h.db.GetAllQuestionLookups(c.Context())
		if err != nil {
			return err
		}
		unanswered, err := h.db.GetTopUnansweredQuestions(c.Context(), dashboardUnansweredLimit)
		if err != nil {
			return err
		}
		data["Lookups"] = lookups
		data["Unanswered"] = unanswered
	}

	return c.Render("admin", data)
}

// DismissQuestion removes an unanswered question once the knowledge base
// covers it.
func (h *AdminHandler) DismissQuestion(c fiber.Ctx) error {
	if h.db == nil {
		return fiber.NewError(fiber.StatusNotFound, "analytics are disabled")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return htmxError(c, "Invalid question id")
	}

	if err := h.db.DeleteUnansweredQuestion(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrQuestionNotFound) {
			return htmxError(c, "Question not found")
		}
		return err
	}

	// Empty response removes the row from the table.
	return c.SendString("")
}

// CheckLinks runs the link checker now and renders the refreshed table.
func (h *AdminHandler) CheckLinks(c fiber.Ctx) error {
	if h.links == nil {
		return fiber.NewError(fiber.StatusNotFound, "link checking is disabled")
	}

	return c.Render("partials/link_status", fiber.Map{
		"Links": h.links.CheckAll(c.Context()),
	}, "")
}
