package dtos

// Auth

type SignupRequest struct {
	Username       string   `json:"username" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=8"`
	TelegramChatID string   `json:"telegram_chat_id"`
	Skills         []string `json:"skills"`
}

// LoginRequest matches the OAuth2 password form the frontend posts
// (x-www-form-urlencoded), but binds from JSON as well.
type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ProfileResponse struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	TelegramChatID string   `json:"telegram_chat_id"`
	Skills         []string `json:"skills"`
}

type SkillsUpdateRequest struct {
	Skills []string `json:"skills" binding:"required"`
}

type ChatIDUpdateRequest struct {
	TelegramChatID string `json:"telegram_chat_id" binding:"required"`
}

type TelegramLinkResponse struct {
	Link        string `json:"link"`
	Token       string `json:"token"`
	BotUsername string `json:"bot_username"`
}

// Jobs

type JobRequest struct {
	Title       string `json:"title" binding:"required"`
	Company     string `json:"company" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description" binding:"required"`
	Link        string `json:"link" binding:"required"`
	Applied     bool   `json:"applied"`

	// Optional fields
	Source        string   `json:"source"`
	ExternalID    string   `json:"external_id"`
	SkillsMatched []string `json:"skills_matched"`
}

// Telegram webhook payload, trimmed to the fields the linking flow reads.

type TelegramUpdate struct {
	UpdateID int64            `json:"update_id"`
	Message  *TelegramMessage `json:"message"`
}

type TelegramMessage struct {
	Chat TelegramChat `json:"chat"`
	Text string       `json:"text"`
}

type TelegramChat struct {
	ID int64 `json:"id"`
}
