package repository

import (
	"auto_builder_go/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TaskRepository 生成任务仓储接口
type TaskRepository interface {
	Save(task *model.TaskEntity) error
	Update(task *model.TaskEntity) error
	FindByID(id string) (*model.TaskEntity, error)
	FindAll() ([]*model.TaskEntity, error)
	Delete(id string) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Save(task *model.TaskEntity) error {
	result := r.db.Create(task)
	if result.Error != nil {
		return result.Error
	}
	log.Infof("创建生成任务，ID: %s，文件: %s", task.ID, task.FileName)
	return nil
}

func (r *taskRepository) Update(task *model.TaskEntity) error {
	result := r.db.Save(task)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *taskRepository) FindByID(id string) (*model.TaskEntity, error) {
	var task model.TaskEntity
	result := r.db.First(&task, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &task, nil
}

func (r *taskRepository) FindAll() ([]*model.TaskEntity, error) {
	var tasks []*model.TaskEntity
	result := r.db.Order("created_at DESC").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

func (r *taskRepository) Delete(id string) error {
	result := r.db.Delete(&model.TaskEntity{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Infof("删除生成任务，ID: %s", id)
	}
	return nil
}
