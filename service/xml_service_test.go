package service

import (
	"os"
	"path/filepath"
	"testing"

	"auto_builder_go/orm"
	"auto_builder_go/xmlcore"

	"github.com/stretchr/testify/require"
)

func TestXmlServiceMergeOrmEntity(t *testing.T) {
	dir := t.TempDir()
	ormPath := filepath.Join(dir, "app.orm.xml")
	skeleton := "<orm>\n    <entities>\n    </entities>\n</orm>\n"
	require.NoError(t, os.WriteFile(ormPath, []byte(skeleton), 0o644))

	cfg := builderConfig()
	cfg.OrmXmlPath = ormPath
	svc := NewXmlService(cfg)

	backend := NewRuleBackend(cfg)
	ormSvc := NewOrmService(backend, cfg)
	result, err := ormSvc.GenerateOrm("Product", []byte(productTableJSON))
	require.NoError(t, err)

	merged, err := svc.Merge("orm", result.Xml)
	require.NoError(t, err)
	require.Equal(t, xmlcore.ActionCreated, merged.Action)
	require.Equal(t, "app.module.LtProduct", merged.Identifier)

	// 同名再次合并是替换而不是追加
	merged, err = svc.Merge("orm", result.Xml)
	require.NoError(t, err)
	require.Equal(t, xmlcore.ActionUpdated, merged.Action)
}

func TestXmlServiceUnknownType(t *testing.T) {
	svc := NewXmlService(builderConfig())
	_, err := svc.Merge("beans", "<bean name=\"a\"/>")
	var cErr *orm.ConfigurationError
	require.ErrorAs(t, err, &cErr)
	require.Equal(t, "xml_type", cErr.Key)
}
