package orm

import (
	"strconv"

	"github.com/beevik/etree"
)

// Render 将实体描述序列化为 XML 片段。
// 属性顺序固定，布尔属性仅在为真时输出，precision/scale 仅在设置时输出，
// 保证同一描述总是渲染出完全相同的文本。
func Render(entity *EntityDescriptor) (string, error) {
	doc := etree.NewDocument()
	root := buildEntityElement(doc, entity)
	doc.SetRoot(root)
	doc.Indent(4)
	return doc.WriteToString()
}

func buildEntityElement(doc *etree.Document, entity *EntityDescriptor) *etree.Element {
	el := doc.CreateElement("entity")
	el.CreateAttr("name", entity.Name)
	el.CreateAttr("className", entity.ClassName)
	el.CreateAttr("tableName", entity.TableName)
	el.CreateAttr("displayName", entity.DisplayName)
	el.CreateAttr("registerShortName", strconv.FormatBool(entity.RegisterShortName))
	el.CreateAttr("createTimeProp", entity.CreateTimeProp)
	el.CreateAttr("updateTimeProp", entity.UpdateTimeProp)
	el.CreateAttr("deleteFlagProp", entity.DeleteFlagProp)
	el.CreateAttr("useLogicalDelete", strconv.FormatBool(entity.UseLogicalDelete))

	cols := el.CreateElement("columns")
	for _, col := range entity.Columns {
		appendColumnElement(cols, col)
	}

	comment := el.CreateElement("comment")
	comment.SetText(entity.Comment)
	return el
}

func appendColumnElement(parent *etree.Element, col ColumnDescriptor) {
	el := parent.CreateElement("column")
	el.CreateAttr("name", col.Name)
	el.CreateAttr("code", col.Code)
	el.CreateAttr("propId", strconv.Itoa(col.PropID))
	el.CreateAttr("displayName", col.DisplayName)
	el.CreateAttr("stdSqlType", string(col.SqlType))
	el.CreateAttr("stdDataType", col.DataType)
	if col.Precision > 0 {
		el.CreateAttr("precision", strconv.Itoa(col.Precision))
	}
	if col.Scale > 0 {
		el.CreateAttr("scale", strconv.Itoa(col.Scale))
	}
	if col.Mandatory {
		el.CreateAttr("mandatory", "true")
	}
	if col.Primary {
		el.CreateAttr("primary", "true")
	}
	if col.Domain != "" {
		el.CreateAttr("domain", col.Domain)
	}
	if col.Visibility != VisibilityNormal {
		el.CreateAttr("ui:show", string(col.Visibility))
	}
}
