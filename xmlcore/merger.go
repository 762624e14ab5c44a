// Package xmlcore 提供把生成的 XML 片段合并进聚合文档的通用能力，
// 典型场景是把单个 entity 片段写入 app.orm.xml 的 entities 容器。
package xmlcore

import (
	"os"
	"strings"

	"github.com/beevik/etree"
)

// 合并动作
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

// MergeResult 合并结果
type MergeResult struct {
	Identifier string // 片段的匹配属性值，如 entity 的 name
	Action     string // created / updated
}

// MergeOptions 一次合并的参数
type MergeOptions struct {
	ParentTag string // 容器元素标签名，如 entities
	Matcher   string // 用于判定新建/替换的属性名，如 name
}

// Merger 面向单个聚合 XML 文件的合并器
type Merger struct {
	path string
}

func NewMerger(path string) *Merger {
	return &Merger{path: path}
}

// MergeEntity 将 entity 片段合并进 entities 容器，按 name 属性去重
func (m *Merger) MergeEntity(entityXML string) (*MergeResult, error) {
	return m.MergeElement(entityXML, MergeOptions{ParentTag: "entities", Matcher: "name"})
}

// MergeElement 通用合并：同名（按 Matcher 属性）元素替换，否则追加到容器末尾
func (m *Merger) MergeElement(fragment string, opts MergeOptions) (*MergeResult, error) {
	if _, err := os.Stat(m.path); err != nil {
		return nil, newError(KindFileNotFound, "目标文件不存在: %s", m.path)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(m.path); err != nil {
		return nil, newError(KindParse, "读取目标文件失败: %v", err)
	}

	frag, err := parseFragment(fragment)
	if err != nil {
		return nil, err
	}

	identifier := frag.SelectAttrValue(opts.Matcher, "")
	if identifier == "" {
		return nil, newError(KindMerge, "片段缺少匹配属性 %s", opts.Matcher)
	}

	parent := findParent(doc, opts.ParentTag)
	if parent == nil {
		return nil, newError(KindMerge, "目标文件中未找到 <%s> 容器", opts.ParentTag)
	}

	action := ActionCreated
	for _, existing := range parent.ChildElements() {
		if existing.Tag == frag.Tag && existing.SelectAttrValue(opts.Matcher, "") == identifier {
			index := existing.Index()
			parent.RemoveChild(existing)
			parent.InsertChildAt(index, frag)
			action = ActionUpdated
			break
		}
	}
	if action == ActionCreated {
		parent.AddChild(frag)
	}

	doc.Indent(4)
	if err := doc.WriteToFile(m.path); err != nil {
		return nil, newError(KindMerge, "写入目标文件失败: %v", err)
	}
	return &MergeResult{Identifier: identifier, Action: action}, nil
}

// parseFragment 解析片段并取出根元素，顺带去掉代码块标记和命名空间声明
func parseFragment(fragment string) (*etree.Element, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(fragment, "```xml", ""), "```", ""))

	fragDoc := etree.NewDocument()
	if err := fragDoc.ReadFromString(cleaned); err != nil {
		return nil, newError(KindParse, "片段不是合法的 XML: %v", err)
	}
	root := fragDoc.Root()
	if root == nil {
		return nil, newError(KindParse, "片段没有根元素")
	}

	detached := root.Copy()
	var nsDecls []string
	for _, attr := range detached.Attr {
		if attr.Space == "xmlns" {
			nsDecls = append(nsDecls, attr.Space+":"+attr.Key)
		}
	}
	for _, key := range nsDecls {
		detached.RemoveAttr(key)
	}
	return detached, nil
}

func findParent(doc *etree.Document, tag string) *etree.Element {
	root := doc.Root()
	if root == nil {
		return nil
	}
	if root.Tag == tag {
		return root
	}
	return root.FindElement("//" + tag)
}
