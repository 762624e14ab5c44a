package orm

import (
	"errors"
	"strings"
	"testing"
)

func renderedProduct(t *testing.T) string {
	t.Helper()
	entity, err := Assemble(productConfig(), productOptions())
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	xml, err := Render(entity)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return xml
}

func validateOpts() ValidateOptions {
	return ValidateOptions{PackageName: "app.module", TablePrefix: "lt_"}
}

func TestExtractFromLlmResponse(t *testing.T) {
	xml := renderedProduct(t)
	// 模拟大模型响应：前后夹杂说明文字和代码块标记
	raw := "根据输入配置生成以下 ORM 实体：\n```xml\n" + xml + "\n```\n注意：以上为生成结果。"

	entity, err := ExtractAndValidate(raw, validateOpts())
	if err != nil {
		t.Fatalf("ExtractAndValidate: %v", err)
	}
	if entity.TableName != "lt_product" {
		t.Errorf("tableName = %q", entity.TableName)
	}
	if len(entity.Columns) != 7 {
		t.Errorf("列数 = %d", len(entity.Columns))
	}
}

func TestExtractIgnoresEntitiesWrapper(t *testing.T) {
	xml := renderedProduct(t)
	raw := "<orm>\n<entities>\n" + xml + "\n</entities>\n</orm>"

	entity, err := ExtractAndValidate(raw, validateOpts())
	if err != nil {
		t.Fatalf("ExtractAndValidate: %v", err)
	}
	if entity.ClassName != "app.module.LtProduct" {
		t.Errorf("className = %q", entity.ClassName)
	}
}

func TestExtractNoFragment(t *testing.T) {
	_, err := ExtractAndValidate("抱歉，我无法生成该实体。", validateOpts())
	var eerr *ExtractionError
	if !errors.As(err, &eerr) || eerr.Kind != ExtractNoFragmentFound {
		t.Fatalf("want ExtractionError(no_fragment_found), got %v", err)
	}
}

func TestExtractTruncated(t *testing.T) {
	xml := renderedProduct(t)
	cut := xml[:strings.Index(xml, "</entity>")]

	_, err := ExtractAndValidate(cut, validateOpts())
	var eerr *ExtractionError
	if !errors.As(err, &eerr) || eerr.Kind != ExtractTruncated {
		t.Fatalf("want ExtractionError(truncated), got %v", err)
	}
}

func TestExtractQuotedAttributeValues(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "属性值包含大于号",
			raw:  `<entity name="x" displayName="单价>0"><columns/></entity>`,
		},
		{
			name: "属性值形如自闭合结尾",
			raw:  `<entity name="x" displayName="/>"><columns/></entity>`,
		},
		{
			name: "自闭合实体的属性值包含大于号",
			raw:  `<entity name="x" displayName="a>b"/>`,
		},
		{
			name: "单引号属性值包含大于号",
			raw:  `<entity name="x" displayName='a>b'><columns/></entity>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.raw)
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got != tt.raw {
				t.Errorf("提取结果 = %q, want %q", got, tt.raw)
			}
		})
	}
}

func mutateRendered(t *testing.T, old, new string) string {
	t.Helper()
	xml := renderedProduct(t)
	if !strings.Contains(xml, old) {
		t.Fatalf("渲染结果中不存在 %q", old)
	}
	return strings.Replace(xml, old, new, 1)
}

func wantRule(t *testing.T, err error, rule string) {
	t.Helper()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError(%s), got %v", rule, err)
	}
	if verr.Rule != rule {
		t.Fatalf("rule = %s, want %s (err: %v)", verr.Rule, rule, err)
	}
}

func TestValidateDuplicatePrimaryKey(t *testing.T) {
	xml := mutateRendered(t,
		`stdSqlType="DECIMAL" stdDataType="decimal" precision="18" scale="2"`,
		`stdSqlType="DECIMAL" stdDataType="decimal" precision="18" scale="2" primary="true"`)
	_, err := ExtractAndValidate(xml, validateOpts())
	wantRule(t, err, RuleDuplicatePrimaryKey)
}

func TestValidateIllegalSqlType(t *testing.T) {
	xml := mutateRendered(t, `stdSqlType="DECIMAL"`, `stdSqlType="TEXT"`)
	_, err := ExtractAndValidate(xml, validateOpts())
	wantRule(t, err, RuleIllegalSqlType)
}

func TestValidateMissingSystemColumn(t *testing.T) {
	xml := mutateRendered(t, `name="deleted"`, `name="removed"`)
	_, err := ExtractAndValidate(xml, validateOpts())
	wantRule(t, err, RuleMissingSystemColumn)
}

func TestValidateBadPropIdSequence(t *testing.T) {
	xml := mutateRendered(t, `propId="3"`, `propId="2"`)
	_, err := ExtractAndValidate(xml, validateOpts())
	wantRule(t, err, RuleBadPropIdSequence)
}

func TestValidateMissingRequiredAttribute(t *testing.T) {
	xml := mutateRendered(t, `tableName="lt_product"`, `tableName=""`)
	_, err := ExtractAndValidate(xml, validateOpts())
	wantRule(t, err, RuleMissingRequiredAttribute)
}

func TestValidateBadClassName(t *testing.T) {
	xml := renderedProduct(t)
	_, err := ExtractAndValidate(xml, ValidateOptions{PackageName: "other.pkg", TablePrefix: "lt_"})
	wantRule(t, err, RuleBadClassName)
}
