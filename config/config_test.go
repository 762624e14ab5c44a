package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("默认端口 = %d, want 8000", cfg.Server.Port)
	}
	if cfg.AI.ActiveProvider != "rule" {
		t.Errorf("默认提供商 = %s, want rule", cfg.AI.ActiveProvider)
	}
	if cfg.AutoBuilder.DefaultPackage != "app.module" || cfg.AutoBuilder.TablePrefix != "lt_" {
		t.Errorf("auto_builder 默认值错误: %+v", cfg.AutoBuilder)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: 9090
ai:
  active_provider: zhipu
  providers:
    zhipu:
      api_key: test-key
      model: glm-4-plus
auto_builder:
  default_package: com.example
  table_prefix: sys_
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.AI.ActiveProvider != "zhipu" || cfg.AI.Providers.Zhipu.APIKey != "test-key" {
		t.Errorf("ai 配置未生效: %+v", cfg.AI)
	}
	if cfg.AI.Providers.Zhipu.BaseURL == "" {
		t.Error("未覆盖的字段应保留默认值")
	}
	if cfg.AutoBuilder.DefaultPackage != "com.example" || cfg.AutoBuilder.TablePrefix != "sys_" {
		t.Errorf("auto_builder 配置未生效: %+v", cfg.AutoBuilder)
	}
}
