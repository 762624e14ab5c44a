package orm

import "encoding/json"

// SqlType 实体列允许使用的 SQL 类型
type SqlType string

const (
	SqlVarchar   SqlType = "VARCHAR"
	SqlChar      SqlType = "CHAR"
	SqlDate      SqlType = "DATE"
	SqlTime      SqlType = "TIME"
	SqlDatetime  SqlType = "DATETIME"
	SqlTimestamp SqlType = "TIMESTAMP"
	SqlInteger   SqlType = "INTEGER"
	SqlBigint    SqlType = "BIGINT"
	SqlDecimal   SqlType = "DECIMAL"
	SqlBoolean   SqlType = "BOOLEAN"
	SqlVarbinary SqlType = "VARBINARY"
)

// legalSqlTypes 合法 SQL 类型集合，校验器据此拒绝其它类型
var legalSqlTypes = map[SqlType]bool{
	SqlVarchar:   true,
	SqlChar:      true,
	SqlDate:      true,
	SqlTime:      true,
	SqlDatetime:  true,
	SqlTimestamp: true,
	SqlInteger:   true,
	SqlBigint:    true,
	SqlDecimal:   true,
	SqlBoolean:   true,
	SqlVarbinary: true,
}

// Visibility 列在界面上的可见性
type Visibility string

const (
	VisibilityNormal   Visibility = ""
	VisibilityReadOnly Visibility = "R"
	VisibilityHidden   Visibility = "X"
)

// 系统列上使用的 domain 标记
const (
	DomainCreateTime = "createTime"
	DomainUpdateTime = "updateTime"
	DomainDelFlag    = "delFlag"
	DomainImage      = "image"
	DomainFile       = "file"
)

// TableColumn 前端表格配置中的一列
type TableColumn struct {
	Title     string `json:"title"`
	DataIndex string `json:"dataIndex"`
	Width     int    `json:"width,omitempty"`
	Align     string `json:"align,omitempty"`
}

// SearchField 前端搜索区配置中的一个字段
type SearchField struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	Key   string `json:"key"`
}

// TableConfig 上传的 UI 表格配置文档
type TableConfig struct {
	Columns      []TableColumn `json:"columns"`
	SearchFields []SearchField `json:"searchFields,omitempty"`
}

// ColumnDescriptor 规范化后的实体列描述
type ColumnDescriptor struct {
	Name        string // camelCase 属性名
	Code        string // UPPER_SNAKE_CASE 列名
	PropID      int    // 实体内唯一且严格递增
	DisplayName string
	SqlType     SqlType
	DataType    string // 与 SqlType 配对的语言级类型
	Precision   int    // 0 表示未设置
	Scale       int    // 0 表示未设置
	Mandatory   bool
	Primary     bool
	Domain      string // createTime/updateTime/delFlag/image/file
	Visibility  Visibility
}

// EntityDescriptor 规范化后的实体描述，列顺序固定为
// [主键] + [业务列，按输入顺序] + [addTime, updateTime, deleted]
type EntityDescriptor struct {
	Name              string // 与 ClassName 相同：{package}.{Pascal前缀}{实体名}
	ClassName         string
	TableName         string // {snake前缀}{snake实体名}
	DisplayName       string
	RegisterShortName bool
	CreateTimeProp    string
	UpdateTimeProp    string
	DeleteFlagProp    string
	UseLogicalDelete  bool
	Columns           []ColumnDescriptor
	Comment           string
}

// uploadDocument 上传文件的完整结构（兼容 body.table.columns 嵌套形式）
type uploadDocument struct {
	Body *struct {
		Table *struct {
			Columns []TableColumn `json:"columns"`
		} `json:"table"`
		Search *struct {
			Fields []SearchField `json:"fields"`
		} `json:"search"`
	} `json:"body"`
	Columns      []TableColumn `json:"columns"`
	SearchFields []SearchField `json:"searchFields"`
}

// ParseTableConfig 解析上传的 JSON 配置。
// 同时兼容 {"body":{"table":{"columns":[...]}}} 和顶层 {"columns":[...]} 两种形式。
func ParseTableConfig(data []byte) (*TableConfig, error) {
	var doc uploadDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, validationErr(RuleEmptyColumns, "", "配置文件不是合法的 JSON: %v", err)
	}

	cfg := &TableConfig{}
	if doc.Body != nil && doc.Body.Table != nil && len(doc.Body.Table.Columns) > 0 {
		cfg.Columns = doc.Body.Table.Columns
		if doc.Body.Search != nil {
			cfg.SearchFields = doc.Body.Search.Fields
		}
	} else {
		cfg.Columns = doc.Columns
		cfg.SearchFields = doc.SearchFields
	}

	if len(cfg.Columns) == 0 {
		return nil, validationErr(RuleEmptyColumns, "", "配置中缺少 columns 或 columns 为空")
	}
	return cfg, nil
}
