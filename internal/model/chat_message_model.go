package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatMessage is the archived copy of one conversation turn. The
// authoritative history lives in the in-memory session store; this
// table is an append-only transcript keyed by session id, with each
// session serializable independently of the others.
type ChatMessage struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId string         `gorm:"type:varchar(64);not null;index"`
	Speaker   string         `gorm:"type:varchar(16);not null"` // user | assistant | system
	Role      string         `gorm:"type:varchar(32)"`          // caller role tag at the time of the turn
	Chat      string         `gorm:"type:text"`
	Payload   datatypes.JSON `gorm:"type:jsonb"` // opaque provider metadata
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
