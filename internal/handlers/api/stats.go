package api

import (
	"github.com/gofiber/fiber/v3"

	"supportbot/internal/db"
	"supportbot/internal/models"
)

const statsUnansweredLimit = 100

// StatsHandler exposes question analytics to admins.
type StatsHandler struct {
	db *db.DB
}

// NewStatsHandler creates a new API stats handler.
func NewStatsHandler(database *db.DB) *StatsHandler {
	return &StatsHandler{db: database}
}

// Stats returns per-entry question counts and the top unanswered questions.
func (h *StatsHandler) Stats(c fiber.Ctx) error {
	user, _ := c.Locals("user").(*models.User)
	if !user.IsAdmin() {
		return jsonError(c, fiber.StatusForbidden, "admin access required")
	}

	if h.db == nil {
		return jsonError(c, fiber.StatusNotFound, "analytics are disabled")
	}

	lookups, err := h.db.GetAllQuestionLookups(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch question counts")
	}

	unanswered, err := h.db.GetTopUnansweredQuestions(c.Context(), statsUnansweredLimit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch unanswered questions")
	}

	if lookups == nil {
		lookups = []models.QuestionLookup{}
	}
	if unanswered == nil {
		unanswered = []models.UnansweredQuestion{}
	}
	return jsonSuccess(c, models.StatsResponse{
		Lookups:    lookups,
		Unanswered: unanswered,
	})
}
