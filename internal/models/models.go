package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Skills       pq.StringArray `gorm:"type:text[]" json:"skills"`

	// Telegram linking. TelegramToken is a pending one-time link token,
	// cleared on successful exchange; TelegramChatID is set once linked.
	TelegramChatID         string     `json:"telegram_chat_id,omitempty"`
	TelegramToken          string     `gorm:"index" json:"-"`
	TelegramTokenExpiresAt *time.Time `json:"-"`
}

// ChangeEntry records one job mutation: when it happened and which fields
// changed, keyed by field name with the new value.
type ChangeEntry struct {
	ChangedAt time.Time         `json:"changed_at"`
	Diff      map[string]string `json:"diff"`
}

// ChangeLog is stored as a single jsonb column.
type ChangeLog []ChangeEntry

func (c ChangeLog) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	b, err := json.Marshal(c)
	return string(b), err
}

func (c *ChangeLog) Scan(value interface{}) error {
	if value == nil {
		*c = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return errors.New("unsupported type for ChangeLog")
	}
}

type Job struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"_id"`
	OwnerID uuid.UUID `gorm:"type:uuid;index;not null" json:"owner_id"`

	Title       string `gorm:"not null" json:"title"`
	Company     string `gorm:"not null" json:"company"`
	Location    string `json:"location,omitempty"`
	Description string `gorm:"type:text" json:"description"`
	Link        string `json:"link"`
	Applied     bool   `json:"applied"`

	DateAdded     time.Time      `json:"date_added"`
	Source        string         `json:"source,omitempty"`
	ExternalID    string         `json:"external_id,omitempty"`
	SkillsMatched pq.StringArray `gorm:"type:text[]" json:"skills_matched"`
	LastChecked   *time.Time     `json:"last_checked,omitempty"`
	ChangeHistory ChangeLog      `gorm:"type:jsonb" json:"change_history"`
}
