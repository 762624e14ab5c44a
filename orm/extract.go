package orm

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ValidateOptions 校验生成片段时使用的期望配置
type ValidateOptions struct {
	PackageName string // 为空时跳过包名/前缀检查
	TablePrefix string
}

// ExtractAndValidate 从生成后端返回的原始文本中提取唯一的实体片段，
// 解析为实体描述并校验结构契约。任何一条规则失败都返回带规则代码的错误。
func ExtractAndValidate(raw string, opts ValidateOptions) (*EntityDescriptor, error) {
	fragment, err := Extract(raw)
	if err != nil {
		return nil, err
	}
	entity, err := Parse(fragment)
	if err != nil {
		return nil, err
	}
	if err := Validate(entity, opts); err != nil {
		return nil, err
	}
	return entity, nil
}

// Extract 定位第一个顶层 <entity> 起始标签及与之配对的结束标签。
// 使用嵌套深度计数而不是 lastIndexOf，嵌套同名元素也能找到真正的配对结束标签。
func Extract(raw string) (string, error) {
	text := stripCodeFences(raw)

	start := indexEntityStart(text, 0)
	if start < 0 {
		return "", &ExtractionError{Kind: ExtractNoFragmentFound, Message: "响应中未找到 <entity> 标签"}
	}

	depth := 0
	i := start
	for i < len(text) {
		switch {
		case isEntityEndTag(text, i):
			gt, _ := indexTagEnd(text, i)
			if gt < 0 {
				return "", &ExtractionError{Kind: ExtractTruncated, Message: "实体结束标签未闭合"}
			}
			depth--
			i = gt + 1
			if depth == 0 {
				return text[start:i], nil
			}
			continue
		case isEntityStartTag(text, i):
			gt, selfClosing := indexTagEnd(text, i)
			if gt < 0 {
				return "", &ExtractionError{Kind: ExtractTruncated, Message: "实体起始标签未闭合"}
			}
			if selfClosing {
				if depth == 0 {
					return text[start : gt+1], nil
				}
			} else {
				depth++
			}
			i = gt + 1
			continue
		}
		i++
	}
	return "", &ExtractionError{Kind: ExtractTruncated, Message: "存在 <entity> 起始标签但缺少配对的结束标签"}
}

// indexTagEnd 从标签起点向后找标签的结束 '>'，引号内的 '>' 和 '/' 属于属性值，
// 不计入标签结构。返回 '>' 的绝对下标和是否自闭合，未找到返回 -1。
func indexTagEnd(text string, from int) (int, bool) {
	var quote byte
	var lastMeaningful byte
	for i := from; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
				lastMeaningful = c
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '>':
			return i, lastMeaningful == '/'
		case ' ', '\t', '\r', '\n':
		default:
			lastMeaningful = c
		}
	}
	return -1, false
}

func indexEntityStart(text string, from int) int {
	for i := from; i < len(text); i++ {
		if text[i] == '<' && isEntityStartTag(text, i) {
			return i
		}
	}
	return -1
}

// stripCodeFences 去掉大模型惯用的 ```xml 代码块包装
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```xml", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// isEntityStartTag 判断 text[i:] 是否是 <entity ...> 起始标签。
// 通过后继字符排除 <entities> 这类前缀相同的元素。
func isEntityStartTag(text string, i int) bool {
	const tag = "<entity"
	if !strings.HasPrefix(text[i:], tag) {
		return false
	}
	rest := text[i+len(tag):]
	if rest == "" {
		return false
	}
	switch rest[0] {
	case ' ', '\t', '\r', '\n', '>', '/':
		return true
	}
	return false
}

func isEntityEndTag(text string, i int) bool {
	const tag = "</entity"
	if !strings.HasPrefix(text[i:], tag) {
		return false
	}
	rest := text[i+len(tag):]
	if rest == "" {
		return false
	}
	return rest[0] == '>' || rest[0] == ' '
}

// Parse 将单个实体片段解析为描述结构
func Parse(fragment string) (*EntityDescriptor, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(fragment); err != nil {
		return nil, &ExtractionError{Kind: ExtractNoFragmentFound, Message: "片段不是合法的 XML: " + err.Error()}
	}
	root := doc.Root()
	if root == nil || root.Tag != "entity" {
		return nil, &ExtractionError{Kind: ExtractNoFragmentFound, Message: "片段根元素不是 entity"}
	}

	entity := &EntityDescriptor{
		Name:              root.SelectAttrValue("name", ""),
		ClassName:         root.SelectAttrValue("className", ""),
		TableName:         root.SelectAttrValue("tableName", ""),
		DisplayName:       root.SelectAttrValue("displayName", ""),
		RegisterShortName: root.SelectAttrValue("registerShortName", "") == "true",
		CreateTimeProp:    root.SelectAttrValue("createTimeProp", ""),
		UpdateTimeProp:    root.SelectAttrValue("updateTimeProp", ""),
		DeleteFlagProp:    root.SelectAttrValue("deleteFlagProp", ""),
		UseLogicalDelete:  root.SelectAttrValue("useLogicalDelete", "") == "true",
	}

	if comment := root.SelectElement("comment"); comment != nil {
		entity.Comment = comment.Text()
	}

	columnsEl := root.SelectElement("columns")
	if columnsEl != nil {
		for _, el := range columnsEl.SelectElements("column") {
			col, err := parseColumn(el)
			if err != nil {
				return nil, err
			}
			entity.Columns = append(entity.Columns, col)
		}
	}
	return entity, nil
}

func parseColumn(el *etree.Element) (ColumnDescriptor, error) {
	name := el.SelectAttrValue("name", "")
	propIDRaw := el.SelectAttrValue("propId", "")
	propID, err := strconv.Atoi(propIDRaw)
	if err != nil {
		return ColumnDescriptor{}, validationErr(RuleBadPropIdSequence, name,
			"propId %q 不是整数", propIDRaw)
	}

	precision, _ := strconv.Atoi(el.SelectAttrValue("precision", "0"))
	scale, _ := strconv.Atoi(el.SelectAttrValue("scale", "0"))

	return ColumnDescriptor{
		Name:        name,
		Code:        el.SelectAttrValue("code", ""),
		PropID:      propID,
		DisplayName: el.SelectAttrValue("displayName", ""),
		SqlType:     SqlType(el.SelectAttrValue("stdSqlType", "")),
		DataType:    el.SelectAttrValue("stdDataType", ""),
		Precision:   precision,
		Scale:       scale,
		Mandatory:   el.SelectAttrValue("mandatory", "") == "true",
		Primary:     el.SelectAttrValue("primary", "") == "true",
		Domain:      el.SelectAttrValue("domain", ""),
		Visibility:  Visibility(el.SelectAttrValue("ui:show", "")),
	}, nil
}

// Validate 对解析后的实体描述执行结构契约校验，按规则逐条检查
func Validate(entity *EntityDescriptor, opts ValidateOptions) error {
	if err := checkRequiredAttributes(entity); err != nil {
		return err
	}
	if err := checkClassName(entity, opts); err != nil {
		return err
	}
	if err := checkPrimaryKey(entity); err != nil {
		return err
	}
	if err := checkSqlTypes(entity); err != nil {
		return err
	}
	if err := checkSystemColumns(entity); err != nil {
		return err
	}
	return checkPropIDSequence(entity)
}

func checkRequiredAttributes(entity *EntityDescriptor) error {
	required := []struct{ attr, value string }{
		{"name", entity.Name},
		{"className", entity.ClassName},
		{"tableName", entity.TableName},
		{"displayName", entity.DisplayName},
		{"createTimeProp", entity.CreateTimeProp},
		{"updateTimeProp", entity.UpdateTimeProp},
		{"deleteFlagProp", entity.DeleteFlagProp},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return validationErr(RuleMissingRequiredAttribute, r.attr, "实体缺少必填属性 %s", r.attr)
		}
	}
	return nil
}

func checkClassName(entity *EntityDescriptor, opts ValidateOptions) error {
	if entity.ClassName != entity.Name {
		return validationErr(RuleBadClassName, "className",
			"className %q 与 name %q 不一致", entity.ClassName, entity.Name)
	}
	if opts.PackageName == "" {
		return nil
	}
	expected := opts.PackageName + "." + DerivePrefix(opts.TablePrefix)
	if !strings.HasPrefix(entity.ClassName, expected) {
		return validationErr(RuleBadClassName, "className",
			"className %q 未以配置的包名前缀 %q 开头", entity.ClassName, expected)
	}
	return nil
}

func checkPrimaryKey(entity *EntityDescriptor) error {
	var primary *ColumnDescriptor
	for i := range entity.Columns {
		col := &entity.Columns[i]
		if !col.Primary {
			continue
		}
		if primary != nil {
			return validationErr(RuleDuplicatePrimaryKey, col.Name,
				"主键重复：%s 与 %s 均标记为 primary", primary.Name, col.Name)
		}
		primary = col
	}
	if primary == nil {
		return validationErr(RuleMissingPrimaryKey, "", "实体没有主键列")
	}
	if primary.Name != "id" || primary.SqlType != SqlInteger {
		return validationErr(RuleBadPrimaryKey, primary.Name,
			"主键必须是 INTEGER 类型的 id 列，实际为 %s/%s", primary.Name, primary.SqlType)
	}
	return nil
}

func checkSqlTypes(entity *EntityDescriptor) error {
	for _, col := range entity.Columns {
		if !legalSqlTypes[col.SqlType] {
			return validationErr(RuleIllegalSqlType, col.Name,
				"列 %s 使用了非法 SQL 类型 %q", col.Name, col.SqlType)
		}
	}
	return nil
}

// checkSystemColumns 三个系统列必须存在、domain 正确且按序位于列表末尾
func checkSystemColumns(entity *EntityDescriptor) error {
	expected := []struct{ name, domain string }{
		{PropAddTime, DomainCreateTime},
		{PropUpdateTime, DomainUpdateTime},
		{PropDeleted, DomainDelFlag},
	}

	byName := map[string]ColumnDescriptor{}
	for _, col := range entity.Columns {
		byName[col.Name] = col
	}
	for _, want := range expected {
		col, ok := byName[want.name]
		if !ok {
			return validationErr(RuleMissingSystemColumn, want.name, "缺少系统列 %s", want.name)
		}
		if col.Domain != want.domain {
			return validationErr(RuleMissingSystemColumn, want.name,
				"系统列 %s 的 domain 应为 %s，实际为 %q", want.name, want.domain, col.Domain)
		}
	}

	n := len(entity.Columns)
	if n < len(expected) {
		return validationErr(RuleBadSystemColumnOrder, "", "列数不足以容纳系统列")
	}
	tail := entity.Columns[n-len(expected):]
	for i, want := range expected {
		if tail[i].Name != want.name {
			return validationErr(RuleBadSystemColumnOrder, want.name,
				"系统列必须按 addTime/updateTime/deleted 顺序位于末尾，位置 %d 实际为 %s", i, tail[i].Name)
		}
	}
	return nil
}

func checkPropIDSequence(entity *EntityDescriptor) error {
	prev := 0
	for _, col := range entity.Columns {
		if col.PropID <= 0 {
			return validationErr(RuleBadPropIdSequence, col.Name,
				"propId 必须为正整数，列 %s 为 %d", col.Name, col.PropID)
		}
		if col.PropID <= prev {
			return validationErr(RuleBadPropIdSequence, col.Name,
				"propId 必须严格递增，列 %s 的 %d 未大于前一列的 %d", col.Name, col.PropID, prev)
		}
		prev = col.PropID
	}
	return nil
}
