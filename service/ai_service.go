package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"auto_builder_go/config"
	"auto_builder_go/orm"

	log "github.com/sirupsen/logrus"
)

// LlmService 生成后端策略接口。
// 提供商在构造时显式选择（NewLlmService 工厂），不做任何运行时反射查找。
type LlmService interface {
	// GeneratePlan 输入完整提示词，返回模型的原始文本响应
	GeneratePlan(prompt string) (string, error)
	ProviderName() string
	Available() bool
}

// NewLlmService 按配置的 active_provider 构造生成后端
func NewLlmService(cfg *config.GlobalConfig) (LlmService, error) {
	switch cfg.AI.ActiveProvider {
	case "zhipu":
		return newHTTPLlmService("Zhipu AI", cfg.AI.Providers.Zhipu, cfg.AI), nil
	case "openai":
		return newHTTPLlmService("OpenAI", cfg.AI.Providers.OpenAI, cfg.AI), nil
	case "rule":
		return NewRuleBackend(cfg.AutoBuilder), nil
	default:
		return nil, &orm.ConfigurationError{
			Key:     "ai.active_provider",
			Message: fmt.Sprintf("不支持的提供商 %q（可选: zhipu/openai/rule）", cfg.AI.ActiveProvider),
		}
	}
}

// httpLlmService 基于 OpenAI 兼容 chat/completions 协议的生成后端，
// 智谱与 OpenAI 共用同一实现，仅接入参数不同。
type httpLlmService struct {
	name        string
	cfg         config.ProviderConfig
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

func newHTTPLlmService(name string, cfg config.ProviderConfig, ai config.AIConfig) *httpLlmService {
	return &httpLlmService{
		name:        name,
		cfg:         cfg,
		temperature: ai.Temperature,
		maxTokens:   ai.MaxTokens,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// AI请求结构体
type aiRequest struct {
	Model       string      `json:"model"`
	Temperature float64     `json:"temperature,omitempty"`
	MaxTokens   int         `json:"max_tokens,omitempty"`
	Messages    []aiMessage `json:"messages"`
}

type aiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AI响应结构体
type aiResponse struct {
	ID      string     `json:"id"`
	Model   string     `json:"model"`
	Choices []aiChoice `json:"choices,omitempty"`
	Usage   aiUsage    `json:"usage,omitempty"`
}

type aiChoice struct {
	Message aiMessage `json:"message"`
}

type aiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (s *httpLlmService) ProviderName() string {
	return s.name
}

func (s *httpLlmService) Available() bool {
	return strings.TrimSpace(s.cfg.APIKey) != "" && strings.TrimSpace(s.cfg.Model) != ""
}

// GeneratePlan 发送生成请求并返回回复内容。任何失败都包装为 ExternalServiceError，
// 不做重试，由调用方决定后续动作。
func (s *httpLlmService) GeneratePlan(prompt string) (string, error) {
	if !s.Available() {
		return "", &orm.ExternalServiceError{
			Provider: s.name,
			Err:      errors.New("AI配置不完整，请检查 api_key 和 model"),
		}
	}

	endpoint := s.buildEndpoint()
	requestData := aiRequest{
		Model:       s.cfg.Model,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		Messages: []aiMessage{
			{Role: "user", Content: prompt},
		},
	}

	req, err := s.createHttpRequest(endpoint, requestData)
	if err != nil {
		return "", &orm.ExternalServiceError{Provider: s.name, Err: fmt.Errorf("创建HTTP请求失败: %v", err)}
	}

	log.Infof("开始调用 %s 生成实体，模型: %s", s.name, s.cfg.Model)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", &orm.ExternalServiceError{Provider: s.name, Err: fmt.Errorf("请求失败: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &orm.ExternalServiceError{Provider: s.name, Err: fmt.Errorf("读取响应体失败: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &orm.ExternalServiceError{
			Provider: s.name,
			Err:      fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncateBody(body)),
		}
	}
	return s.parseResponse(body)
}

// buildEndpoint 构建API端点，base_url 已含版本路径（如 /v1、/api/paas/v4）
func (s *httpLlmService) buildEndpoint() string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/chat/completions"
}

func (s *httpLlmService) createHttpRequest(endpoint string, requestData aiRequest) (*http.Request, error) {
	payload, err := json.Marshal(requestData)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	return req, nil
}

func (s *httpLlmService) parseResponse(body []byte) (string, error) {
	var response aiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", &orm.ExternalServiceError{Provider: s.name, Err: fmt.Errorf("解析响应失败: %v", err)}
	}
	if len(response.Choices) == 0 {
		return "", &orm.ExternalServiceError{Provider: s.name, Err: errors.New("响应中没有choices")}
	}
	content := response.Choices[0].Message.Content
	log.Infof("%s 响应完成，token用量: %d", s.name, response.Usage.TotalTokens)
	return content, nil
}

func truncateBody(body []byte) string {
	const max = 500
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
