package models

import (
	"time"

	"github.com/go-pg/pg/v10/orm"
	"github.com/google/uuid"
)

// Notification is a pulled (not pushed) feed entry. A nil UserID with
// IsGlobal set makes it visible to every user of the company.
type Notification struct {
	ID        uuid.UUID  `pg:"id,type:uuid,pk"`
	CompanyID uuid.UUID  `pg:"company_id,type:uuid,notnull"`
	UserID    *uuid.UUID `pg:"user_id,type:uuid"`
	Title     string     `pg:"title,notnull"`
	Body      string     `pg:"body"`
	Link      string     `pg:"link"`
	IsGlobal  bool       `pg:"is_global,notnull,default:false"`
	IsRead    bool       `pg:"is_read,notnull,default:false"`
	CreatedAt time.Time  `pg:"created_at,notnull,default:now()"`

	Company *Company `pg:"rel:has-one,fk:company_id"`
	User    *User    `pg:"rel:has-one,fk:user_id"`
}

// BeforeInsert hook is called before inserting a new notification
func (n *Notification) BeforeInsert(_ orm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	return nil
}

// TableName returns the name of the table for this model
func (n *Notification) TableName() string {
	return "notifications"
}

// VisibleTo reports whether the notification should appear in the given
// user's feed: either addressed to them or global for their company.
func (n *Notification) VisibleTo(userID uuid.UUID) bool {
	if n.IsGlobal {
		return true
	}
	return n.UserID != nil && *n.UserID == userID
}
