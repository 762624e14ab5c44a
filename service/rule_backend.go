package service

import (
	"strings"

	"auto_builder_go/config"
	"auto_builder_go/orm"
)

// RuleBackend 纯规则生成后端：不经过模型，直接按推断规则装配实体。
// 用于离线环境和测试，输出与提示词约定的结构完全一致。
type RuleBackend struct {
	defaultPackage string
	tablePrefix    string
}

func NewRuleBackend(cfg config.AutoBuilderConfig) *RuleBackend {
	return &RuleBackend{
		defaultPackage: cfg.DefaultPackage,
		tablePrefix:    cfg.TablePrefix,
	}
}

func (b *RuleBackend) ProviderName() string {
	return "Rule"
}

func (b *RuleBackend) Available() bool {
	return b.defaultPackage != "" && b.tablePrefix != ""
}

// GeneratePlan 从提示词中取出实体名称和输入配置两段，装配后渲染为XML。
// 提示词格式由 BuildPrompt 保证，两个标记缺失时视为非法输入。
func (b *RuleBackend) GeneratePlan(prompt string) (string, error) {
	entityName := extractMarkedLine(prompt, "实体名称:")
	configJSON := extractMarkedBlock(prompt, "输入配置:")
	if entityName == "" || configJSON == "" {
		return "", &orm.ConfigurationError{
			Key:     "prompt",
			Message: "提示词缺少实体名称或输入配置段",
		}
	}

	tableConfig, err := orm.ParseTableConfig([]byte(configJSON))
	if err != nil {
		return "", err
	}
	entity, err := orm.Assemble(tableConfig, orm.AssembleOptions{
		EntityName:  entityName,
		TablePrefix: b.tablePrefix,
		PackageName: b.defaultPackage,
		DisplayName: entityName,
	})
	if err != nil {
		return "", err
	}
	return orm.Render(entity)
}

// extractMarkedLine 返回标记后同一行的剩余内容
func extractMarkedLine(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	rest := text[idx+len(marker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	return strings.TrimSpace(rest)
}

// extractMarkedBlock 返回标记之后直到文本末尾的内容
func extractMarkedBlock(text, marker string) string {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(text[idx+len(marker):])
}
