package service

import (
	"strings"
	"time"

	"auto_builder_go/model"
	"auto_builder_go/orm"
	"auto_builder_go/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// TaskService 异步生成任务：上传配置后立即返回任务ID，
// 生成与合并在后台完成，调用方轮询任务状态。
type TaskService struct {
	ormService *OrmService
	xmlService *XmlService
	taskRepo   repository.TaskRepository
}

func NewTaskService(ormService *OrmService, xmlService *XmlService, taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		ormService: ormService,
		xmlService: xmlService,
		taskRepo:   taskRepo,
	}
}

// SubmitTask 创建生成任务并在后台执行，实体名称取自文件名（去扩展名后转PascalCase）
func (s *TaskService) SubmitTask(fileName string, configData []byte) (*model.TaskEntity, error) {
	task := &model.TaskEntity{
		ID:       uuid.NewString(),
		FileName: fileName,
		Status:   model.TaskStatusPending,
	}
	if err := s.taskRepo.Save(task); err != nil {
		return nil, err
	}

	go s.processTask(task.ID, fileName, configData)
	return task, nil
}

func (s *TaskService) GetTask(id string) (*model.TaskEntity, error) {
	return s.taskRepo.FindByID(id)
}

func (s *TaskService) ListTasks() ([]*model.TaskEntity, error) {
	return s.taskRepo.FindAll()
}

func (s *TaskService) DeleteTask(id string) error {
	return s.taskRepo.Delete(id)
}

// processTask 执行生成流程并回写任务状态，失败原因记录在 error_message
func (s *TaskService) processTask(taskID, fileName string, configData []byte) {
	if err := s.transition(taskID, func(task *model.TaskEntity) {
		task.Status = model.TaskStatusProcessing
	}); err != nil {
		log.Errorf("任务 %s 状态更新失败: %v", taskID, err)
		return
	}

	entityName := entityNameFromFileName(fileName)
	result, err := s.ormService.GenerateOrm(entityName, configData)
	if err != nil {
		log.Errorf("任务 %s 生成失败: %v", taskID, err)
		s.markFailed(taskID, err)
		return
	}

	if err := s.xmlService.MergeOrmEntity(result.Xml); err != nil {
		log.Errorf("任务 %s 合并失败: %v", taskID, err)
		s.markFailed(taskID, err)
		return
	}

	err = s.transition(taskID, func(task *model.TaskEntity) {
		now := time.Now()
		task.Status = model.TaskStatusSuccess
		task.ResultXml = result.Xml
		task.EntityName = result.EntityName
		task.TargetTable = result.TableName
		task.CompletedAt = &now
	})
	if err != nil {
		log.Errorf("任务 %s 结果保存失败: %v", taskID, err)
		return
	}
	log.Infof("任务 %s 完成，实体 %s", taskID, result.EntityName)
}

// transition 读出任务、应用变更后整行保存
func (s *TaskService) transition(taskID string, apply func(*model.TaskEntity)) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}
	apply(task)
	return s.taskRepo.Update(task)
}

func (s *TaskService) markFailed(taskID string, cause error) {
	err := s.transition(taskID, func(task *model.TaskEntity) {
		now := time.Now()
		task.Status = model.TaskStatusFailed
		task.ErrorMessage = cause.Error()
		task.CompletedAt = &now
	})
	if err != nil {
		log.Errorf("任务 %s 失败状态保存失败: %v", taskID, err)
	}
}

// entityNameFromFileName 文件名去扩展名后转PascalCase，如 order_item.json -> OrderItem
func entityNameFromFileName(fileName string) string {
	base := fileName
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	return orm.ToPascalCase(base)
}
