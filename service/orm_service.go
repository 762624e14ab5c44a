package service

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"auto_builder_go/config"
	"auto_builder_go/model"
	"auto_builder_go/orm"

	log "github.com/sirupsen/logrus"
)

//go:embed prompts/orm.md
var ormPromptTemplate string

// OrmService 实体生成主流程：表格配置 -> 提示词 -> 后端生成 -> 提取校验 -> 规范化渲染
type OrmService struct {
	llm LlmService
	cfg config.AutoBuilderConfig
}

func NewOrmService(llm LlmService, cfg config.AutoBuilderConfig) *OrmService {
	return &OrmService{llm: llm, cfg: cfg}
}

// GenerateOrm 根据实体名称和表格配置JSON生成规范化的实体XML。
// 返回的XML经过重新渲染，与后端的原始输出字节层面无关。
func (s *OrmService) GenerateOrm(entityName string, configData []byte) (*model.OrmGenerationResult, error) {
	if strings.TrimSpace(s.cfg.DefaultPackage) == "" {
		return nil, &orm.ConfigurationError{Key: "autobuilder.default_package", Message: "默认包名不能为空"}
	}
	if strings.TrimSpace(s.cfg.TablePrefix) == "" {
		return nil, &orm.ConfigurationError{Key: "autobuilder.table_prefix", Message: "表名前缀不能为空"}
	}
	if strings.TrimSpace(entityName) == "" {
		return nil, &orm.ConfigurationError{Key: "entity_name", Message: "实体名称不能为空"}
	}

	// 配置在进入生成后端之前先行解析，避免把坏输入送给模型
	if _, err := orm.ParseTableConfig(configData); err != nil {
		return nil, err
	}

	prompt := s.BuildPrompt(entityName, configData)
	log.Infof("生成实体 %s，后端: %s", entityName, s.llm.ProviderName())

	raw, err := s.llm.GeneratePlan(prompt)
	if err != nil {
		return nil, wrapBackendError(s.llm.ProviderName(), err)
	}

	entity, err := orm.ExtractAndValidate(raw, orm.ValidateOptions{
		PackageName: s.cfg.DefaultPackage,
		TablePrefix: s.cfg.TablePrefix,
	})
	if err != nil {
		return nil, err
	}

	canonical, err := orm.Render(entity)
	if err != nil {
		return nil, err
	}
	log.Infof("实体 %s 生成完成，表名 %s，共 %d 列", entity.Name, entity.TableName, len(entity.Columns))
	return &model.OrmGenerationResult{
		Xml:        canonical,
		EntityName: entity.Name,
		TableName:  entity.TableName,
	}, nil
}

// BuildPrompt 组装完整提示词：规则文档 + 实体名称 + 输入配置
func (s *OrmService) BuildPrompt(entityName string, configData []byte) string {
	var sb strings.Builder
	sb.WriteString(ormPromptTemplate)
	sb.WriteString("\n\n实体名称: ")
	sb.WriteString(entityName)
	sb.WriteString("\n\n输入配置:\n")
	sb.Write(configData)
	return sb.String()
}

// wrapBackendError 保留核心错误类型原样上抛，其余失败归为外部服务错误
func wrapBackendError(provider string, err error) error {
	var vErr *orm.ValidationError
	var eErr *orm.ExtractionError
	var cErr *orm.ConfigurationError
	var sErr *orm.ExternalServiceError
	if errors.As(err, &vErr) || errors.As(err, &eErr) || errors.As(err, &cErr) || errors.As(err, &sErr) {
		return err
	}
	return &orm.ExternalServiceError{Provider: provider, Err: fmt.Errorf("生成失败: %w", err)}
}
