package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"auto_builder_go/config"
	"auto_builder_go/model"
	"auto_builder_go/orm"
	"auto_builder_go/repository"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// 上下文携带的历史消息条数上限
const conversationHistoryLimit = 20

// 单个附件读入提示词的大小上限
const attachmentSizeLimit = 64 * 1024

// ConversationService 多轮对话：消息落库，发送时把近期历史和附件内容
// 拼进提示词交给生成后端
type ConversationService struct {
	llm       LlmService
	convRepo  repository.ConversationRepository
	uploadDir string
}

func NewConversationService(llm LlmService, convRepo repository.ConversationRepository, cfg config.AutoBuilderConfig) *ConversationService {
	return &ConversationService{
		llm:       llm,
		convRepo:  convRepo,
		uploadDir: cfg.UploadDir,
	}
}

func (s *ConversationService) CreateConversation(title string) (*model.ConversationEntity, error) {
	conv := &model.ConversationEntity{
		ID:    uuid.NewString(),
		Title: title,
	}
	if err := s.convRepo.Save(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) GetConversation(id string) (*model.ConversationEntity, error) {
	return s.convRepo.FindByID(id)
}

func (s *ConversationService) ListConversations() ([]*model.ConversationEntity, error) {
	return s.convRepo.FindAll()
}

func (s *ConversationService) RenameConversation(id, title string) (*model.ConversationEntity, error) {
	conv, err := s.convRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, nil
	}
	conv.Title = title
	if err := s.convRepo.Update(conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) DeleteConversation(id string) error {
	return s.convRepo.Delete(id)
}

func (s *ConversationService) ListMessages(conversationID string) ([]*model.MessageEntity, error) {
	return s.convRepo.FindMessages(conversationID, conversationHistoryLimit)
}

// UploadFile 保存附件到上传目录并登记，文件ID作为磁盘文件名避免碰撞
func (s *ConversationService) UploadFile(conversationID, fileName string, data []byte) (*model.FileEntity, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	file := &model.FileEntity{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		FileName:       fileName,
		Size:           int64(len(data)),
	}
	file.FilePath = filepath.Join(s.uploadDir, file.ID+filepath.Ext(fileName))
	if err := os.WriteFile(file.FilePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("保存附件失败: %w", err)
	}
	if err := s.convRepo.SaveFile(file); err != nil {
		return nil, err
	}
	log.Infof("附件已保存，会话: %s，文件: %s (%d 字节)", conversationID, fileName, file.Size)
	return file, nil
}

func (s *ConversationService) ListFiles(conversationID string) ([]*model.FileEntity, error) {
	return s.convRepo.FindFiles(conversationID)
}

// SendMessage 记录用户消息，带上历史和附件内容调用后端，再记录助手回复。
// fileIDs 为本条消息引用的附件ID列表。
func (s *ConversationService) SendMessage(conversationID, content string, fileIDs []string) (*model.MessageEntity, error) {
	history, err := s.convRepo.FindMessages(conversationID, conversationHistoryLimit)
	if err != nil {
		return nil, err
	}

	userMsg := &model.MessageEntity{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           model.RoleUser,
		Content:        content,
		FileRefs:       strings.Join(fileIDs, ","),
	}
	if err := s.convRepo.SaveMessage(userMsg); err != nil {
		return nil, err
	}

	prompt, err := s.buildConversationPrompt(history, content, fileIDs)
	if err != nil {
		return nil, err
	}
	reply, err := s.llm.GeneratePlan(prompt)
	if err != nil {
		return nil, wrapBackendError(s.llm.ProviderName(), err)
	}

	assistantMsg := &model.MessageEntity{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           model.RoleAssistant,
		Content:        reply,
	}
	if err := s.convRepo.SaveMessage(assistantMsg); err != nil {
		return nil, err
	}
	return assistantMsg, nil
}

// buildConversationPrompt 历史按 用户/助手 标注逐行拼接，附件内容整段附在末尾
func (s *ConversationService) buildConversationPrompt(history []*model.MessageEntity, content string, fileIDs []string) (string, error) {
	var sb strings.Builder
	for _, msg := range history {
		switch msg.Role {
		case model.RoleAssistant:
			sb.WriteString("助手: ")
		default:
			sb.WriteString("用户: ")
		}
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("用户: ")
	sb.WriteString(content)

	for _, fileID := range fileIDs {
		file, err := s.convRepo.FindFile(fileID)
		if err != nil {
			return "", err
		}
		if file == nil {
			return "", &orm.ConfigurationError{
				Key:     "file_ids",
				Message: fmt.Sprintf("附件 %s 不存在", fileID),
			}
		}
		data, err := os.ReadFile(file.FilePath)
		if err != nil {
			return "", fmt.Errorf("读取附件 %s 失败: %w", file.FileName, err)
		}
		if len(data) > attachmentSizeLimit {
			data = data[:attachmentSizeLimit]
		}
		sb.WriteString(fmt.Sprintf("\n\n附件 %s:\n", file.FileName))
		sb.Write(data)
	}
	return sb.String(), nil
}
