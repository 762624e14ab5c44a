package orm

import (
	"reflect"
	"testing"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		dataIndex string
		want      TypeInfo
	}{
		{
			name: "money", title: "商品价格", dataIndex: "商品价格",
			want: TypeInfo{SqlType: SqlDecimal, DataType: "decimal", Precision: 18, Scale: 2},
		},
		{
			name: "quantity", title: "商品数量", dataIndex: "商品数量",
			want: TypeInfo{SqlType: SqlInteger, DataType: "int"},
		},
		{
			name: "create time with domain", title: "创建时间", dataIndex: "addTime",
			want: TypeInfo{SqlType: SqlDatetime, DataType: "datetime", Domain: DomainCreateTime},
		},
		{
			name: "update time with domain", title: "更新时间", dataIndex: "updateTime",
			want: TypeInfo{SqlType: SqlDatetime, DataType: "datetime", Domain: DomainUpdateTime},
		},
		{
			name: "plain datetime has no domain", title: "发货时间", dataIndex: "shipTime",
			want: TypeInfo{SqlType: SqlDatetime, DataType: "datetime"},
		},
		{
			name: "date only", title: "创建日期", dataIndex: "生效日期",
			want: TypeInfo{SqlType: SqlDate, DataType: "date"},
		},
		{
			name: "percentage", title: "完成比例", dataIndex: "finishRatio",
			want: TypeInfo{SqlType: SqlDecimal, DataType: "decimal", Precision: 5, Scale: 2},
		},
		{
			name: "boolean", title: "是否上架", dataIndex: "onShelf",
			want: TypeInfo{SqlType: SqlBoolean, DataType: "boolean"},
		},
		{
			name: "status", title: "订单状态", dataIndex: "orderStatus",
			want: TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 255},
		},
		{
			name: "description", title: "商品描述", dataIndex: "desc",
			want: TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 500},
		},
		{
			name: "image with domain", title: "商品图片", dataIndex: "mainImage",
			want: TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 200, Domain: DomainImage},
		},
		{
			name: "file with domain", title: "合同附件", dataIndex: "contractFile",
			want: TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 200, Domain: DomainFile},
		},
		{
			name: "money wins over date when both match", title: "价格日期", dataIndex: "价格日期",
			want: TypeInfo{SqlType: SqlDecimal, DataType: "decimal", Precision: 18, Scale: 2},
		},
		{
			name: "unknown falls through to varchar", title: "商品名称", dataIndex: "商品名称",
			want: TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 255},
		},
		{
			name: "empty input", title: "", dataIndex: "",
			want: TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 255},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferType(tt.title, tt.dataIndex)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("InferType(%q, %q) = %+v, want %+v", tt.title, tt.dataIndex, got, tt.want)
			}
		})
	}
}

// 推断必须是确定性的：同一输入两次调用结果一致
func TestInferTypeDeterministic(t *testing.T) {
	for _, label := range []string{"商品价格", "创建时间", "未知字段", "订单状态"} {
		first := InferType(label, label)
		second := InferType(label, label)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("InferType(%q) 两次结果不一致: %+v vs %+v", label, first, second)
		}
	}
}
