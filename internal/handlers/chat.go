package handlers

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"supportbot/internal/chat"
	"supportbot/internal/config"
	"supportbot/internal/models"
	"supportbot/internal/validation"
)

const sessionTranscript = "transcript"

// ChatHandler serves the chat page.
type ChatHandler struct {
	svc     *chat.Service
	cfg     *config.Config
	chatCfg *config.YAMLConfig
}

// NewChatHandler creates a new chat handler. chatCfg may be nil.
func NewChatHandler(svc *chat.Service, cfg *config.Config, chatCfg *config.YAMLConfig) *ChatHandler {
	return &ChatHandler{svc: svc, cfg: cfg, chatCfg: chatCfg}
}

// Index renders the chat page with the session's transcript.
func (h *ChatHandler) Index(c fiber.Ctx) error {
	t := h.loadTranscript(c)
	total, questions := t.Stats()

	return c.Render("index", MergeBranding(fiber.Map{
		"User":            c.Locals("user"),
		"Messages":        t.Messages,
		"SampleQuestions": h.chatCfg.SampleQuestions(),
		"TotalMessages":   total,
		"QuestionCount":   questions,
		"MaxLength":       h.cfg.MaxQuestionLength,
	}, h.cfg))
}

// Ask answers a question typed into the chat form.
func (h *ChatHandler) Ask(c fiber.Ctx) error {
	question := c.FormValue("question")

	if valid, msg := validation.ValidateQuestion(question, h.cfg.MaxQuestionLength); !valid {
		if isHTMX(c) {
			return htmxError(c, msg)
		}
		return fiber.NewError(fiber.StatusBadRequest, msg)
	}

	return h.answer(c, question)
}

// Sample answers one of the configured sample questions.
func (h *ChatHandler) Sample(c fiber.Ctx) error {
	samples := h.chatCfg.SampleQuestions()

	n, err := strconv.Atoi(c.Params("n"))
	if err != nil || !validation.ValidateSampleIndex(n, len(samples)) {
		if isHTMX(c) {
			return htmxError(c, "Unknown sample question")
		}
		return fiber.NewError(fiber.StatusNotFound, "unknown sample question")
	}

	return h.answer(c, samples[n])
}

// Clear resets the transcript to the welcome message.
func (h *ChatHandler) Clear(c fiber.Ctx) error {
	t := h.loadTranscript(c)
	t.Reset()
	if err := h.saveTranscript(c, t); err != nil {
		return err
	}

	if isHTMX(c) {
		return c.Render("partials/messages", fiber.Map{
			"Messages": t.Messages,
		}, "")
	}
	return c.Redirect().To("/")
}

func (h *ChatHandler) answer(c fiber.Ctx, question string) error {
	reply := h.svc.Ask(question)

	exchange := []models.Message{
		models.NewMessage(models.RoleUserMessage, question),
		models.NewMessage(models.RoleAssistantMessage, reply.Answer),
	}

	t := h.loadTranscript(c)
	t.Append(exchange...)
	if err := h.saveTranscript(c, t); err != nil {
		return err
	}

	if isHTMX(c) {
		return c.Render("partials/messages", fiber.Map{
			"Messages": exchange,
		}, "")
	}
	return c.Redirect().To("/")
}

func (h *ChatHandler) loadTranscript(c fiber.Ctx) *chat.Transcript {
	welcome := h.chatCfg.WelcomeMessage()
	sess := session.FromContext(c)
	if sess == nil {
		return chat.NewTranscript(welcome, h.cfg.HistoryLimit)
	}

	data, _ := sess.Get(sessionTranscript).(string)
	t, err := chat.DecodeTranscript(data, welcome, h.cfg.HistoryLimit)
	if err != nil {
		slog.Warn("discarding unreadable transcript", "error", err)
	}
	return t
}

func (h *ChatHandler) saveTranscript(c fiber.Ctx, t *chat.Transcript) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	data, err := t.Encode()
	if err != nil {
		return err
	}
	sess.Set(sessionTranscript, data)
	return nil
}
