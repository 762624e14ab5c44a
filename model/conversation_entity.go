package model

import "time"

// 消息角色
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationEntity 会话实体类
type ConversationEntity struct {
	ID        string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	Title     string    `gorm:"column:title" json:"title"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ConversationEntity) TableName() string {
	return "conversation"
}

// MessageEntity 会话消息实体类
type MessageEntity struct {
	ID             string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;size:36;index" json:"conversation_id"`
	Role           string    `gorm:"column:role;size:16" json:"role"`
	Content        string    `gorm:"column:content;type:text" json:"content"`
	FileRefs       string    `gorm:"column:file_refs;size:1000" json:"file_refs,omitempty"` // 逗号分隔的附件ID
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (MessageEntity) TableName() string {
	return "message"
}

// FileEntity 会话附件实体类
type FileEntity struct {
	ID             string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;size:36;index" json:"conversation_id"`
	FileName       string    `gorm:"column:file_name" json:"file_name"`
	FilePath       string    `gorm:"column:file_path" json:"-"`
	Size           int64     `gorm:"column:size" json:"size"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (FileEntity) TableName() string {
	return "file"
}
