package orm

import (
	"errors"
	"testing"
)

func productConfig() *TableConfig {
	return &TableConfig{
		Columns: []TableColumn{
			{Title: "商品名称", DataIndex: "商品名称"},
			{Title: "商品数量", DataIndex: "商品数量"},
			{Title: "商品价格", DataIndex: "商品价格"},
		},
	}
}

func productOptions() AssembleOptions {
	return AssembleOptions{
		EntityName:  "Product",
		TablePrefix: "lt_",
		PackageName: "app.module",
		DisplayName: "商品",
	}
}

func TestAssembleProductScenario(t *testing.T) {
	entity, err := Assemble(productConfig(), productOptions())
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if entity.ClassName != "app.module.LtProduct" {
		t.Errorf("className = %q, want app.module.LtProduct", entity.ClassName)
	}
	if entity.Name != entity.ClassName {
		t.Errorf("name %q != className %q", entity.Name, entity.ClassName)
	}
	if entity.TableName != "lt_product" {
		t.Errorf("tableName = %q, want lt_product", entity.TableName)
	}
	if !entity.RegisterShortName || !entity.UseLogicalDelete {
		t.Error("registerShortName/useLogicalDelete 应为 true")
	}
	if entity.CreateTimeProp != "addTime" || entity.UpdateTimeProp != "updateTime" || entity.DeleteFlagProp != "deleted" {
		t.Errorf("系统属性配置错误: %s/%s/%s",
			entity.CreateTimeProp, entity.UpdateTimeProp, entity.DeleteFlagProp)
	}

	// 1 主键 + 3 业务列 + 3 系统列
	if len(entity.Columns) != 7 {
		t.Fatalf("列数 = %d, want 7", len(entity.Columns))
	}
	for i, col := range entity.Columns {
		if col.PropID != i+1 {
			t.Errorf("列 %s 的 propId = %d, want %d", col.Name, col.PropID, i+1)
		}
	}

	pk := entity.Columns[0]
	if !pk.Primary || pk.Name != "id" || pk.Code != "ID" || pk.SqlType != SqlInteger || !pk.Mandatory {
		t.Errorf("主键列不符合约定: %+v", pk)
	}
	if pk.Visibility != VisibilityReadOnly {
		t.Errorf("主键列应为只读, got %q", pk.Visibility)
	}

	price := entity.Columns[3]
	if price.SqlType != SqlDecimal || price.Precision != 18 || price.Scale != 2 {
		t.Errorf("价格列类型推断错误: %+v", price)
	}
	if price.DisplayName != "商品价格" {
		t.Errorf("价格列 displayName = %q", price.DisplayName)
	}

	tail := entity.Columns[4:]
	wantTail := []struct{ name, domain string }{
		{"addTime", DomainCreateTime},
		{"updateTime", DomainUpdateTime},
		{"deleted", DomainDelFlag},
	}
	for i, want := range wantTail {
		if tail[i].Name != want.name || tail[i].Domain != want.domain {
			t.Errorf("系统列 %d = %s/%s, want %s/%s",
				i, tail[i].Name, tail[i].Domain, want.name, want.domain)
		}
		if tail[i].Visibility != VisibilityHidden {
			t.Errorf("系统列 %s 应为隐藏列", tail[i].Name)
		}
	}
}

func TestAssembleColumnCount(t *testing.T) {
	// 任意非空配置：列数恒为 len(columns)+4，propId 连续无空洞
	for n := 1; n <= 6; n++ {
		cfg := &TableConfig{}
		for i := 0; i < n; i++ {
			cfg.Columns = append(cfg.Columns, TableColumn{
				Title:     "字段",
				DataIndex: "field" + string(rune('A'+i)),
			})
		}
		entity, err := Assemble(cfg, productOptions())
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if len(entity.Columns) != n+4 {
			t.Errorf("n=%d: 列数 = %d, want %d", n, len(entity.Columns), n+4)
		}
		for i, col := range entity.Columns {
			if col.PropID != i+1 {
				t.Errorf("n=%d: propId 断裂于 %s", n, col.Name)
			}
		}
	}
}

func TestAssembleEmptyColumns(t *testing.T) {
	_, err := Assemble(&TableConfig{}, productOptions())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Rule != RuleEmptyColumns {
		t.Fatalf("want ValidationError(empty_columns), got %v", err)
	}
}

func TestAssembleDuplicateCode(t *testing.T) {
	cfg := &TableConfig{
		Columns: []TableColumn{
			{Title: "订单号", DataIndex: "order_no"},
			{Title: "订单编号", DataIndex: "orderNo"},
		},
	}
	_, err := Assemble(cfg, productOptions())
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Rule != RuleDuplicateCode {
		t.Fatalf("want ValidationError(duplicate_code), got %v", err)
	}
}

func TestAssembleMissingConfig(t *testing.T) {
	opts := productOptions()
	opts.PackageName = ""
	_, err := Assemble(productConfig(), opts)
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("want ConfigurationError, got %v", err)
	}
}

func TestParseTableConfig(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantN   int
		wantErr bool
	}{
		{"bare form", `{"columns":[{"title":"商品名称","dataIndex":"name"}]}`, 1, false},
		{"nested form", `{"body":{"table":{"columns":[{"title":"a","dataIndex":"a"},{"title":"b","dataIndex":"b"}]}}}`, 2, false},
		{"empty columns", `{"columns":[]}`, 0, true},
		{"missing columns", `{"foo":1}`, 0, true},
		{"not json", `hello`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseTableConfig([]byte(tt.input))
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Rule != RuleEmptyColumns {
					t.Fatalf("want ValidationError(empty_columns), got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTableConfig: %v", err)
			}
			if len(cfg.Columns) != tt.wantN {
				t.Errorf("columns = %d, want %d", len(cfg.Columns), tt.wantN)
			}
		})
	}
}
