package model

import "time"

// 任务状态枚举
const (
	TaskStatusPending    = "pending"
	TaskStatusProcessing = "processing"
	TaskStatusSuccess    = "success"
	TaskStatusFailed     = "failed"
)

// TaskEntity 生成任务实体类
type TaskEntity struct {
	ID           string     `gorm:"primaryKey;column:id;size:36" json:"task_id"`
	FileName     string     `gorm:"column:file_name" json:"file_name"`
	Status       string     `gorm:"column:status;size:16;index" json:"status"`
	ErrorMessage string     `gorm:"column:error_message;size:2000" json:"error_message,omitempty"`
	ResultXml    string     `gorm:"column:result_xml;type:text" json:"-"`
	EntityName   string     `gorm:"column:entity_name" json:"entity_name,omitempty"`
	TargetTable  string     `gorm:"column:table_name" json:"table_name,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
	CompletedAt  *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
}

func (TaskEntity) TableName() string {
	return "task"
}

// OrmGenerationResult ORM 生成结果
type OrmGenerationResult struct {
	Xml        string `json:"xml"`
	EntityName string `json:"entity_name"`
	TableName  string `json:"table_name"`
}
