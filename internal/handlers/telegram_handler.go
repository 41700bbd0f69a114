package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/autotrackr/autotrackr/internal/dtos"
	"github.com/autotrackr/autotrackr/internal/logger"
	"github.com/autotrackr/autotrackr/internal/services"
)

type TelegramHandler struct {
	Links *services.LinkService
	Log   logger.Logger
}

func NewTelegramHandler(links *services.LinkService, log logger.Logger) *TelegramHandler {
	return &TelegramHandler{Links: links, Log: log}
}

// Webhook receives Telegram update payloads. Whatever happens internally,
// the response is 200 {"ok": true} — a non-2xx answer would make Telegram
// retry the same update over and over.
func (h *TelegramHandler) Webhook(c *gin.Context) {
	ack := func() { c.JSON(http.StatusOK, gin.H{"ok": true}) }

	var update dtos.TelegramUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		h.Log.Warn("malformed telegram update", logger.Error(err))
		ack()
		return
	}
	if update.Message == nil {
		ack()
		return
	}

	chatID := strconv.FormatInt(update.Message.Chat.ID, 10)
	text := strings.TrimSpace(update.Message.Text)

	if text == "/start" || strings.HasPrefix(text, "/start ") {
		token := strings.TrimSpace(strings.TrimPrefix(text, "/start"))
		h.Links.HandleStart(c.Request.Context(), chatID, token)
	}

	ack()
}
