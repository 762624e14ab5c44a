package xmlcore

import "fmt"

// 错误种类
const (
	KindParse        = "parse"
	KindMerge        = "merge"
	KindFileNotFound = "file_not_found"
)

// Error XML 处理错误，Kind 区分解析/合并/文件缺失
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("XML处理失败 [%s]: %s", e.Kind, e.Message)
}

func newError(kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
