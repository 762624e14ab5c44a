package orm

import "fmt"

// 校验规则代码，校验失败时通过 ValidationError.Rule 返回具体违反的规则
const (
	RuleEmptyColumns             = "empty_columns"
	RuleDuplicateCode            = "duplicate_code"
	RuleMissingRequiredAttribute = "missing_required_attribute"
	RuleIllegalSqlType           = "illegal_sql_type"
	RuleBadPropIdSequence        = "bad_prop_id_sequence"
	RuleMissingPrimaryKey        = "missing_primary_key"
	RuleDuplicatePrimaryKey      = "duplicate_primary_key"
	RuleBadPrimaryKey            = "bad_primary_key"
	RuleMissingSystemColumn      = "missing_system_column"
	RuleBadSystemColumnOrder     = "bad_system_column_order"
	RuleBadClassName             = "bad_class_name"
)

// 片段提取错误类型
const (
	ExtractNoFragmentFound = "no_fragment_found"
	ExtractTruncated       = "truncated"
)

// ValidationError 输入配置或生成结果违反结构契约
type ValidationError struct {
	Rule    string // 违反的规则代码
	Field   string // 相关字段/列名，可为空
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("校验失败 [%s] 字段 %s: %s", e.Rule, e.Field, e.Message)
	}
	return fmt.Sprintf("校验失败 [%s]: %s", e.Rule, e.Message)
}

func validationErr(rule, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Rule: rule, Field: field, Message: fmt.Sprintf(format, args...)}
}

// ExtractionError 生成后端返回的文本中不包含完整的实体片段
type ExtractionError struct {
	Kind    string // no_fragment_found / truncated
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("片段提取失败 [%s]: %s", e.Kind, e.Message)
}

// ExternalServiceError 生成后端调用失败（密钥缺失、网络异常、配额不足等）
type ExternalServiceError struct {
	Provider string
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("AI服务调用失败 [%s]: %v", e.Provider, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// ConfigurationError 核心配置缺失（包名、表前缀等），在调用生成前快速失败
type ConfigurationError struct {
	Key     string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("配置错误 [%s]: %s", e.Key, e.Message)
}
