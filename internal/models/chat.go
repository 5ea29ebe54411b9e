package models

import (
	"time"

	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
)

// ChatRole identifies the author of a chat message
type ChatRole string

// Chat roles
const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one entry in the append-only per-user chat log. The log is
// the display record; the assistant's rolling prompt window is kept separately.
type ChatMessage struct {
	ID        uuid.UUID `pg:"id,type:uuid,pk"`
	CompanyID uuid.UUID `pg:"company_id,type:uuid,notnull"`
	UserID    uuid.UUID `pg:"user_id,type:uuid,notnull"`
	Role      ChatRole  `pg:"role,type:text,notnull"`
	Content   string    `pg:"content,notnull"`
	Timestamp time.Time `pg:"timestamp,notnull,default:now()"`

	Company *Company `pg:"rel:has-one,fk:company_id"`
	User    *User    `pg:"rel:has-one,fk:user_id"`
}

// BeforeInsert hook is called before inserting a new chat message
func (m *ChatMessage) BeforeInsert(_ orm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}

// TableName returns the name of the table for this model
func (m *ChatMessage) TableName() string {
	return "chat_messages"
}
