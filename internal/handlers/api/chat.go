package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"supportbot/internal/chat"
	"supportbot/internal/config"
	"supportbot/internal/models"
	"supportbot/internal/validation"
)

// ChatHandler answers questions via JSON API.
type ChatHandler struct {
	svc     *chat.Service
	cfg     *config.Config
	chatCfg *config.YAMLConfig
}

// NewChatHandler creates a new API chat handler. chatCfg may be nil.
func NewChatHandler(svc *chat.Service, cfg *config.Config, chatCfg *config.YAMLConfig) *ChatHandler {
	return &ChatHandler{svc: svc, cfg: cfg, chatCfg: chatCfg}
}

// Ask matches a question and returns the formatted answer.
func (h *ChatHandler) Ask(c fiber.Ctx) error {
	var req models.AskRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if valid, msg := validation.ValidateQuestion(req.Question, h.cfg.MaxQuestionLength); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	return jsonSuccess(c, h.svc.Ask(req.Question).Response())
}

// Topics lists the knowledge base entries by category.
func (h *ChatHandler) Topics(c fiber.Ctx) error {
	topics := h.svc.Topics()
	if topics == nil {
		topics = []models.Topic{}
	}
	return jsonSuccess(c, topics)
}

// Samples returns the sample questions shown on the chat page.
func (h *ChatHandler) Samples(c fiber.Ctx) error {
	return jsonSuccess(c, h.chatCfg.SampleQuestions())
}

// Health reports service status and knowledge base size.
func (h *ChatHandler) Health(c fiber.Ctx) error {
	return jsonSuccess(c, fiber.Map{
		"entries":   h.svc.Store().Len(),
		"analytics": h.cfg.IsAnalyticsEnabled(),
	})
}
