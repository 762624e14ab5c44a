package orm

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
)

// 命名转换器：标签 → camelCase → UPPER_SNAKE / snake_case。
// 所有函数都是纯函数且不会失败；对 ASCII 标识符满足往返性质：
// ToSnakeCase(ToCamelCase(ToSnakeCase(x))) == ToSnakeCase(x)。

var pinyinArgs = pinyin.NewArgs()

// hanToToken 将单个汉字转成拼音（无声调，取首读音）。
// 中文标签的罗马化采用逐字拼音：商品名称 → shang pin ming cheng。
func hanToToken(r rune) string {
	readings := pinyin.SinglePinyin(r, pinyinArgs)
	if len(readings) > 0 {
		return readings[0]
	}
	return string(r)
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '\t', '_', '-', '/', '.', ':', ';', ',',
		'，', '、', '。', '：', '；', '（', '）', '(', ')',
		'【', '】', '[', ']', '《', '》', '"', '\'':
		return true
	}
	return unicode.IsSpace(r)
}

// tokenize 将原始标签切分为小写词元序列。
// 汉字逐字转拼音各占一个词元；ASCII 大写字母视为新词元边界；
// 无法识别的字符原样保留在当前词元中。
func tokenize(label string) []string {
	var tokens []string
	var buf []rune

	flush := func() {
		if len(buf) > 0 {
			tokens = append(tokens, strings.ToLower(string(buf)))
			buf = buf[:0]
		}
	}

	for _, r := range label {
		switch {
		case isSeparator(r):
			flush()
		case unicode.Is(unicode.Han, r):
			flush()
			tokens = append(tokens, hanToToken(r))
		case r >= 'A' && r <= 'Z':
			flush()
			buf = append(buf, r)
		default:
			buf = append(buf, r)
		}
	}
	flush()
	return tokens
}

func capitalize(token string) string {
	if token == "" {
		return ""
	}
	rs := []rune(token)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}

// ToCamelCase 将任意标签转为 camelCase 属性名。对空串返回空串。
func ToCamelCase(label string) string {
	tokens := tokenize(label)
	if len(tokens) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(tokens[0])
	for _, t := range tokens[1:] {
		b.WriteString(capitalize(t))
	}
	return b.String()
}

// ToPascalCase 同 ToCamelCase，但首词元同样大写开头，用于类名。
func ToPascalCase(label string) string {
	tokens := tokenize(label)
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(capitalize(t))
	}
	return b.String()
}

// ToUpperSnake 在每个大写字母边界前插入下划线并整体大写：
// shangPinMingCheng → SHANG_PIN_MING_CHENG。
func ToUpperSnake(camel string) string {
	return snakeBoundary(camel, true)
}

// ToSnakeCase 同边界规则，整体小写，用于表名：LtProduct → lt_product。
func ToSnakeCase(pascal string) string {
	return snakeBoundary(pascal, false)
}

func snakeBoundary(s string, upper bool) string {
	var b strings.Builder
	prev := rune(0)
	for i, r := range s {
		if r >= 'A' && r <= 'Z' && i > 0 && prev != '_' {
			b.WriteRune('_')
		}
		prev = r
		if upper {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// DerivePrefix 将配置的表前缀转为 Pascal 形式：lt_ → Lt，sys_app_ → SysApp。
func DerivePrefix(tablePrefix string) string {
	trimmed := strings.TrimRight(tablePrefix, "_")
	if trimmed == "" {
		return ""
	}
	var b strings.Builder
	for _, part := range strings.Split(trimmed, "_") {
		b.WriteString(capitalize(strings.ToLower(part)))
	}
	return b.String()
}
