package repository

import (
	"auto_builder_go/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConversationRepository 会话仓储接口，会话及其消息、附件一并管理
type ConversationRepository interface {
	Save(conv *model.ConversationEntity) error
	Update(conv *model.ConversationEntity) error
	FindByID(id string) (*model.ConversationEntity, error)
	FindAll() ([]*model.ConversationEntity, error)
	Delete(id string) error

	SaveMessage(msg *model.MessageEntity) error
	FindMessages(conversationID string, limit int) ([]*model.MessageEntity, error)

	SaveFile(file *model.FileEntity) error
	FindFile(id string) (*model.FileEntity, error)
	FindFiles(conversationID string) ([]*model.FileEntity, error)
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Save(conv *model.ConversationEntity) error {
	if err := r.db.Create(conv).Error; err != nil {
		return err
	}
	log.Infof("创建会话，ID: %s，标题: %s", conv.ID, conv.Title)
	return nil
}

func (r *conversationRepository) Update(conv *model.ConversationEntity) error {
	return r.db.Save(conv).Error
}

func (r *conversationRepository) FindByID(id string) (*model.ConversationEntity, error) {
	var conv model.ConversationEntity
	result := r.db.First(&conv, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &conv, nil
}

func (r *conversationRepository) FindAll() ([]*model.ConversationEntity, error) {
	var convs []*model.ConversationEntity
	if err := r.db.Order("updated_at DESC").Find(&convs).Error; err != nil {
		return nil, err
	}
	return convs, nil
}

// Delete 删除会话时级联删除其消息与附件记录
func (r *conversationRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.MessageEntity{}, "conversation_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&model.FileEntity{}, "conversation_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.ConversationEntity{}, "id = ?", id).Error
	})
}

func (r *conversationRepository) SaveMessage(msg *model.MessageEntity) error {
	return r.db.Create(msg).Error
}

// FindMessages 返回会话最近的 limit 条消息，按时间正序
func (r *conversationRepository) FindMessages(conversationID string, limit int) ([]*model.MessageEntity, error) {
	var msgs []*model.MessageEntity
	query := r.db.Where("conversation_id = ?", conversationID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&msgs).Error; err != nil {
		return nil, err
	}
	// 倒序取出后翻转为正序
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (r *conversationRepository) SaveFile(file *model.FileEntity) error {
	if err := r.db.Create(file).Error; err != nil {
		return err
	}
	log.Infof("保存会话附件，ID: %s，文件: %s", file.ID, file.FileName)
	return nil
}

func (r *conversationRepository) FindFile(id string) (*model.FileEntity, error) {
	var file model.FileEntity
	result := r.db.First(&file, "id = ?", id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &file, nil
}

func (r *conversationRepository) FindFiles(conversationID string) ([]*model.FileEntity, error) {
	var files []*model.FileEntity
	if err := r.db.Where("conversation_id = ?", conversationID).Order("created_at").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}
