package orm

import "fmt"

// AssembleOptions 组装实体所需的显式配置，不依赖任何全局状态
type AssembleOptions struct {
	EntityName  string // Pascal 形式的实体名，如 Product
	TablePrefix string // 表前缀，如 lt_
	PackageName string // 实体所属包名，如 app.module
	DisplayName string // 实体显示名，缺省取 EntityName
}

// 固定系统列属性名
const (
	PropAddTime    = "addTime"
	PropUpdateTime = "updateTime"
	PropDeleted    = "deleted"
)

// Assemble 将表格配置组装为规范化的实体描述。
// 列顺序固定：propId=1 的主键，业务列按输入顺序，最后是三个系统列。
func Assemble(cfg *TableConfig, opts AssembleOptions) (*EntityDescriptor, error) {
	if opts.PackageName == "" {
		return nil, &ConfigurationError{Key: "default_package", Message: "缺少实体包名配置"}
	}
	if opts.EntityName == "" {
		return nil, &ConfigurationError{Key: "entity_name", Message: "缺少实体名"}
	}
	if cfg == nil || len(cfg.Columns) == 0 {
		return nil, validationErr(RuleEmptyColumns, "", "配置中缺少 columns 或 columns 为空")
	}

	displayName := opts.DisplayName
	if displayName == "" {
		displayName = opts.EntityName
	}

	columns := make([]ColumnDescriptor, 0, len(cfg.Columns)+4)
	columns = append(columns, ColumnDescriptor{
		Name:        "id",
		Code:        "ID",
		PropID:      1,
		DisplayName: "ID",
		SqlType:     SqlInteger,
		DataType:    "int",
		Mandatory:   true,
		Primary:     true,
		Visibility:  VisibilityReadOnly,
	})

	seen := map[string]string{"ID": "id"}
	propID := 2
	for _, col := range cfg.Columns {
		source := col.DataIndex
		if source == "" {
			source = col.Title
		}
		name := ToCamelCase(source)
		code := ToUpperSnake(name)
		if prev, dup := seen[code]; dup {
			return nil, validationErr(RuleDuplicateCode, name,
				"列 %q 与 %q 归一化后的列名 %s 冲突", name, prev, code)
		}
		seen[code] = name

		info := InferType(col.Title, col.DataIndex)
		columns = append(columns, ColumnDescriptor{
			Name:        name,
			Code:        code,
			PropID:      propID,
			DisplayName: col.Title,
			SqlType:     info.SqlType,
			DataType:    info.DataType,
			Precision:   info.Precision,
			Scale:       info.Scale,
			Domain:      info.Domain,
			Visibility:  VisibilityNormal,
		})
		propID++
	}

	columns = append(columns, systemColumns(propID)...)

	pascalName := DerivePrefix(opts.TablePrefix) + ToPascalCase(opts.EntityName)
	className := opts.PackageName + "." + pascalName

	return &EntityDescriptor{
		Name:              className,
		ClassName:         className,
		TableName:         ToSnakeCase(pascalName),
		DisplayName:       displayName,
		RegisterShortName: true,
		CreateTimeProp:    PropAddTime,
		UpdateTimeProp:    PropUpdateTime,
		DeleteFlagProp:    PropDeleted,
		UseLogicalDelete:  true,
		Columns:           columns,
		Comment:           fmt.Sprintf("%s实体，由表格配置生成", displayName),
	}, nil
}

// systemColumns 三个固定的簿记列：addTime、updateTime、deleted，
// 均为隐藏列，propId 接续业务列继续递增。
func systemColumns(startPropID int) []ColumnDescriptor {
	return []ColumnDescriptor{
		{
			Name:        PropAddTime,
			Code:        "ADD_TIME",
			PropID:      startPropID,
			DisplayName: "创建时间",
			SqlType:     SqlDatetime,
			DataType:    "datetime",
			Mandatory:   true,
			Domain:      DomainCreateTime,
			Visibility:  VisibilityHidden,
		},
		{
			Name:        PropUpdateTime,
			Code:        "UPDATE_TIME",
			PropID:      startPropID + 1,
			DisplayName: "更新时间",
			SqlType:     SqlDatetime,
			DataType:    "datetime",
			Mandatory:   true,
			Domain:      DomainUpdateTime,
			Visibility:  VisibilityHidden,
		},
		{
			Name:        PropDeleted,
			Code:        "DELETED",
			PropID:      startPropID + 2,
			DisplayName: "删除标记",
			SqlType:     SqlBoolean,
			DataType:    "boolean",
			Mandatory:   true,
			Domain:      DomainDelFlag,
			Visibility:  VisibilityHidden,
		},
	}
}
