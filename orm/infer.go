package orm

import "strings"

// TypeInfo 类型推断结果
type TypeInfo struct {
	SqlType   SqlType
	DataType  string
	Precision int
	Scale     int
	Domain    string
}

type inferRule struct {
	semantic string
	keywords []string
	info     TypeInfo
}

// inferRules 关键词规则表，按表序首次命中生效。
// 顺序即优先级：同一标签命中多条规则时以排在前面的为准，
// datetime 排在 date 之前是为了让 updateTime 这类标签不被 "date" 误判。
var inferRules = []inferRule{
	{
		semantic: "quantity",
		keywords: []string{"数量", "件数", "次数", "quantity", "count", "qty"},
		info:     TypeInfo{SqlType: SqlInteger, DataType: "int"},
	},
	{
		semantic: "money",
		keywords: []string{"价格", "金额", "费用", "单价", "price", "amount", "fee", "money"},
		info:     TypeInfo{SqlType: SqlDecimal, DataType: "decimal", Precision: 18, Scale: 2},
	},
	{
		semantic: "percentage",
		keywords: []string{"百分比", "比例", "占比", "percent", "rate", "ratio"},
		info:     TypeInfo{SqlType: SqlDecimal, DataType: "decimal", Precision: 5, Scale: 2},
	},
	{
		semantic: "datetime",
		keywords: []string{"时间", "datetime", "time"},
		info:     TypeInfo{SqlType: SqlDatetime, DataType: "datetime"},
	},
	{
		semantic: "date",
		keywords: []string{"日期", "date"},
		info:     TypeInfo{SqlType: SqlDate, DataType: "date"},
	},
	{
		semantic: "time",
		keywords: []string{"时刻", "时分"},
		info:     TypeInfo{SqlType: SqlTime, DataType: "time"},
	},
	{
		semantic: "boolean",
		keywords: []string{"是否", "flag", "bool", "enabled"},
		info:     TypeInfo{SqlType: SqlBoolean, DataType: "boolean"},
	},
	{
		semantic: "status",
		keywords: []string{"状态", "类型", "来源", "渠道", "status", "type", "source", "channel"},
		info:     TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 255},
	},
	{
		semantic: "description",
		keywords: []string{"描述", "备注", "说明", "description", "remark", "comment"},
		info:     TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 500},
	},
	{
		semantic: "image",
		keywords: []string{"图片", "照片", "头像", "image", "photo", "img", "avatar"},
		info:     TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 200, Domain: DomainImage},
	},
	{
		semantic: "file",
		keywords: []string{"文件", "附件", "file", "attachment"},
		info:     TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 200, Domain: DomainFile},
	},
}

// defaultTypeInfo 未命中任何规则时的兜底类型
var defaultTypeInfo = TypeInfo{SqlType: SqlVarchar, DataType: "string", Precision: 255}

// InferType 根据列的标题和标识推断 SQL 类型。纯规则匹配，无任何概率成分；
// 未识别的语义不报错，统一落到 VARCHAR(255)。
func InferType(title, dataIndex string) TypeInfo {
	text := strings.ToLower(title + " " + dataIndex)

	for _, rule := range inferRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				info := rule.info
				if info.SqlType == SqlDatetime {
					info.Domain = datetimeDomain(text)
				}
				return info
			}
		}
	}
	return defaultTypeInfo
}

// datetimeDomain 为日期时间字段补充 domain 标记：
// 创建类 → createTime，更新类 → updateTime，其余不打标。
func datetimeDomain(text string) string {
	for _, kw := range []string{"创建", "create", "add", "新增"} {
		if strings.Contains(text, kw) {
			return DomainCreateTime
		}
	}
	for _, kw := range []string{"更新", "修改", "update", "modify"} {
		if strings.Contains(text, kw) {
			return DomainUpdateTime
		}
	}
	return ""
}
