package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置结构体
type GlobalConfig struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	AI          AIConfig          `mapstructure:"ai"`
	AutoBuilder AutoBuilderConfig `mapstructure:"auto_builder"`
}

// HTTP 服务配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// 数据库配置
type DatabaseConfig struct {
	DSN             string `mapstructure:"dsn"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 分钟
}

// AI 配置：激活的提供商 + 各提供商参数
type AIConfig struct {
	ActiveProvider string          `mapstructure:"active_provider"` // zhipu / openai / rule
	Providers      ProvidersConfig `mapstructure:"providers"`
	Temperature    float64         `mapstructure:"temperature"`
	MaxTokens      int             `mapstructure:"max_tokens"`
}

type ProvidersConfig struct {
	Zhipu  ProviderConfig `mapstructure:"zhipu"`
	OpenAI ProviderConfig `mapstructure:"openai"`
}

// 单个大模型提供商的接入参数
type ProviderConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// 实体生成相关配置
type AutoBuilderConfig struct {
	DefaultPackage string `mapstructure:"default_package"` // 实体包名，如 app.module
	TablePrefix    string `mapstructure:"table_prefix"`    // 表前缀，如 lt_
	OrmXmlPath     string `mapstructure:"orm_xml_path"`    // app.orm.xml 路径
	UploadDir      string `mapstructure:"upload_dir"`      // 会话附件目录
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)
	v.SetDefault("ai.active_provider", "rule")
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.max_tokens", 4096)
	v.SetDefault("ai.providers.zhipu.base_url", "https://open.bigmodel.cn/api/paas/v4")
	v.SetDefault("ai.providers.zhipu.model", "glm-4")
	v.SetDefault("ai.providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("ai.providers.openai.model", "gpt-4o-mini")
	v.SetDefault("auto_builder.default_package", "app.module")
	v.SetDefault("auto_builder.table_prefix", "lt_")
	v.SetDefault("auto_builder.orm_xml_path", "app.orm.xml")
	v.SetDefault("auto_builder.upload_dir", "uploads")
}

// InitConfig 初始化配置，读取 ./config/config.yaml
func InitConfig() (*GlobalConfig, error) {
	return LoadConfig("./config")
}

// LoadConfig 从指定目录读取 config.yaml 并解析到结构体
func LoadConfig(dir string) (*GlobalConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config") // 配置文件名称（不带扩展名）
	v.SetConfigType("yaml")   // 配置文件类型
	v.AddConfigPath(dir)      // 配置文件路径

	// 读取配置文件；文件不存在时仅使用默认值
	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("读取配置文件失败: %v", err)
		}
	}

	var cfg GlobalConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %v", err)
	}
	return &cfg, nil
}
