package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/autotrackr/autotrackr/internal/auth"
	"github.com/autotrackr/autotrackr/internal/dtos"
	"github.com/autotrackr/autotrackr/internal/services"
)

type AuthHandler struct {
	Users *services.UserService
	Links *services.LinkService
}

func NewAuthHandler(users *services.UserService, links *services.LinkService) *AuthHandler {
	return &AuthHandler{Users: users, Links: links}
}

// Signup is the POST /auth/signup endpoint.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dtos.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	if err := h.Users.Signup(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// Login accepts the OAuth2 password form (and JSON) and returns a bearer
// token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidation(c, err)
		return
	}
	token, err := h.Users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.LoginResponse{AccessToken: token, TokenType: "bearer"})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user := auth.CurrentUser(c)
	c.JSON(http.StatusOK, h.Users.Profile(user))
}

// UpdateSkills replaces the user's skills list.
func (h *AuthHandler) UpdateSkills(c *gin.Context) {
	var req dtos.SkillsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	user := auth.CurrentUser(c)
	if err := h.Users.UpdateSkills(c.Request.Context(), user, req.Skills); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Skills updated successfully", "skills": req.Skills})
}

// UpdateTelegram sets the raw chat id directly, for users who already know
// it and skip the deep-link flow.
func (h *AuthHandler) UpdateTelegram(c *gin.Context) {
	var req dtos.ChatIDUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}
	user := auth.CurrentUser(c)
	if err := h.Users.UpdateChatID(c.Request.Context(), user, req.TelegramChatID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          "Telegram chat id updated successfully",
		"telegram_chat_id": req.TelegramChatID,
	})
}

// TelegramLink generates a fresh one-time deep link for account linking.
func (h *AuthHandler) TelegramLink(c *gin.Context) {
	user := auth.CurrentUser(c)
	link, token, err := h.Links.GenerateLink(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.TelegramLinkResponse{
		Link:        link,
		Token:       token,
		BotUsername: h.Links.BotUsername(),
	})
}

// TelegramTest sends a test notification to the linked chat.
func (h *AuthHandler) TelegramTest(c *gin.Context) {
	user := auth.CurrentUser(c)
	if err := h.Users.SendTest(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test notification sent"})
}
