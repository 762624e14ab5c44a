package service

import (
	"fmt"

	"auto_builder_go/config"
	"auto_builder_go/orm"
	"auto_builder_go/xmlcore"

	log "github.com/sirupsen/logrus"
)

// xmlTypeConfig 描述一类可合并的XML文件：目标路径、父标签和匹配属性
type xmlTypeConfig struct {
	Path      string
	ParentTag string
	Matcher   string
}

// XmlService 按 xml_type 把片段合并进对应的模型文件
type XmlService struct {
	types map[string]xmlTypeConfig
}

func NewXmlService(cfg config.AutoBuilderConfig) *XmlService {
	return &XmlService{
		types: map[string]xmlTypeConfig{
			"orm": {
				Path:      cfg.OrmXmlPath,
				ParentTag: "entities",
				Matcher:   "name",
			},
		},
	}
}

// MergeOrmEntity 把实体片段合并进 ORM 模型文件
func (s *XmlService) MergeOrmEntity(fragment string) error {
	_, err := s.Merge("orm", fragment)
	return err
}

// Merge 合并片段并返回合并结果，xml_type 未注册时报配置错误
func (s *XmlService) Merge(xmlType, fragment string) (*xmlcore.MergeResult, error) {
	tc, ok := s.types[xmlType]
	if !ok {
		return nil, &orm.ConfigurationError{
			Key:     "xml_type",
			Message: fmt.Sprintf("未注册的XML类型 %q", xmlType),
		}
	}
	merger := xmlcore.NewMerger(tc.Path)
	result, err := merger.MergeElement(fragment, xmlcore.MergeOptions{
		ParentTag: tc.ParentTag,
		Matcher:   tc.Matcher,
	})
	if err != nil {
		return nil, err
	}
	log.Infof("XML合并完成，类型: %s，标识: %s，动作: %s", xmlType, result.Identifier, result.Action)
	return result, nil
}
