package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"go.uber.org/zap"

	"github.com/brieflyai/brieflyai/internal/models"
)

// intelPersona is the fixed analyst persona embedded in every generation
// request. The six category labels are a hard constraint: the model must not
// merge them or invent new ones.
const intelPersona = `你是一位顶级情报分析官。你的工作准则：
1. 【分类硬约束】：你必须严格按照指定的 6 个分类对信息进行归档，不得合并或创建新分类。
2. 【高价值降噪】：过滤无意义的娱乐花边，只保留具备商业逻辑、技术启发或选题价值的情报。
3. 【实时穿透】：针对"抖音/TikTok 信号雷达"，检索两个平台的实时热门榜单与爆款单品。
4. 【商业拆解】：每一条信号必须包含背后的商业逻辑分析：为什么火，普通人如何入场变现。`

const (
	fallbackExecutiveSummary = "正在深度扫描信号脉冲..."
	fallbackMobileSummary    = "暂无行动指南。"
)

// Client talks to an OpenAI-compatible generation backend. It owns prompt
// construction, schema-constrained requests and response repair; callers get
// back fully stamped reports.
type Client struct {
	client openai.Client
	model  string
	hasKey bool
	log    *zap.Logger
	now    func() time.Time
	sleep  func(context.Context, time.Duration) error
}

func NewClient(apiKey, baseURL, model string, log *zap.Logger) *Client {
	apiKey = cleanCredential(apiKey)

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		client: openai.NewClient(opts...),
		model:  model,
		hasKey: apiKey != "",
		log:    log,
		now:    time.Now,
		sleep:  sleepFor,
	}
}

// cleanCredential trims whitespace and stray quotes that tend to sneak into
// pasted keys.
func cleanCredential(key string) string {
	return strings.Trim(strings.TrimSpace(key), `"'`)
}

// ReportDate formats a generation-time stamp the way the briefing displays
// it. Not an ordering key.
func ReportDate(t time.Time) string {
	return t.Format("2006/1/2")
}

// GenerateBriefing requests one categorized briefing report. On success the
// report comes back stamped with date and cache timestamp. Rate limiting is
// surfaced immediately; the caller decides whether to retry.
func (c *Client) GenerateBriefing(ctx context.Context, configs []models.CategoryConfig) (*models.BriefingReport, error) {
	now := c.now()
	prompt := buildBriefingPrompt(ReportDate(now), configs)

	text, err := c.generate(ctx, prompt, briefingSchema())
	if err != nil {
		return nil, err
	}

	var report models.BriefingReport
	if err := ExtractJSON(text, &report); err != nil {
		c.log.Error("briefing response unparsable", zap.String("raw", text), zap.Error(err))
		return nil, err
	}

	if report.ExecutiveSummary == "" {
		report.ExecutiveSummary = fallbackExecutiveSummary
	}
	if report.MobileSummary == "" {
		report.MobileSummary = fallbackMobileSummary
	}
	report.Date = ReportDate(now)
	report.CacheTimestamp = now.UnixMilli()

	return &report, nil
}

// GenerateTrending fetches only the trending signal list. This lighter call
// sits behind the bounded retry: up to 3 attempts on rate-limit errors only.
func (c *Client) GenerateTrending(ctx context.Context) ([]models.TrendingItem, error) {
	return retryOnRateLimit(ctx, c.sleep, func() ([]models.TrendingItem, error) {
		text, err := c.generate(ctx, buildTrendingPrompt(ReportDate(c.now())), trendingSchema())
		if err != nil {
			return nil, err
		}

		var payload struct {
			Trending []models.TrendingItem `json:"trending"`
		}
		if err := ExtractJSON(text, &payload); err != nil {
			c.log.Error("trending response unparsable", zap.String("raw", text), zap.Error(err))
			return nil, err
		}
		return payload.Trending, nil
	})
}

func (c *Client) generate(ctx context.Context, prompt string, schema map[string]any) (string, error) {
	if !c.hasKey {
		return "", ErrMissingCredential
	}

	response, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(intelPersona),
			openai.UserMessage(prompt),
		},
		Temperature:     openai.Float(0.2),
		ReasoningEffort: shared.ReasoningEffortLow,
		WebSearchOptions: openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: "medium",
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   "briefing_report",
					Schema: schema,
					Strict: openai.Bool(false),
				},
			},
		},
	})
	if err != nil {
		return "", classifyErr(err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("同步失败：%w", fmt.Errorf("empty response from backend"))
	}
	return response.Choices[0].Message.Content, nil
}

func buildBriefingPrompt(date string, configs []models.CategoryConfig) string {
	var sb strings.Builder
	sb.WriteString("日期：" + date + "\n\n")

	sb.WriteString("【任务一：情报采集】\n请针对以下指定的 6 个分类进行全网检索：\n")
	for i, cfg := range configs {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, cfg.Label))
	}

	sb.WriteString("\n【任务二：抖音/TikTok 穿透】\n")
	sb.WriteString("必须检索 Douyin (抖音) 和 TikTok 的实时热门榜单。找出：\n")
	sb.WriteString("- 最近 24 小时内热度爆发的 3 个话题爆点 (TOPIC)。\n")
	sb.WriteString("- 最近 24 小时内销量/讨论度猛增的 2 个热卖单品 (PRODUCT)。\n")

	sb.WriteString("\n【输出 JSON 要求】：\n")
	sb.WriteString("- sections 数组的 categoryLabel 必须完全对应上述 6 个分类。\n")
	sb.WriteString("- trending 数组包含实时榜单，analysis 字段必须是深度商业拆解。\n")

	return sb.String()
}

func buildTrendingPrompt(date string) string {
	var sb strings.Builder
	sb.WriteString("日期：" + date + "\n\n")
	sb.WriteString("检索 Douyin (抖音) 和 TikTok 的实时热门榜单。\n")
	sb.WriteString("找出最近 24 小时内热度爆发的 3 个话题爆点 (TOPIC) 和 2 个热卖单品 (PRODUCT)。\n")
	sb.WriteString("输出 JSON：{\"trending\": [...]}，analysis 字段必须是深度商业拆解。\n")
	return sb.String()
}

func newsItemSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"summary":     map[string]any{"type": "string"},
			"source":      map[string]any{"type": "string"},
			"url":         map[string]any{"type": "string"},
			"impactScore": map[string]any{"type": "number"},
		},
	}
}

func trendingItemSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rank":     map[string]any{"type": "number"},
			"topic":    map[string]any{"type": "string"},
			"heat":     map[string]any{"type": "string"},
			"platform": map[string]any{"type": "string"},
			"analysis": map[string]any{"type": "string"},
			"url":      map[string]any{"type": "string"},
			"type":     map[string]any{"type": "string", "enum": []string{"TOPIC", "PRODUCT"}},
		},
	}
}

func trendingSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"trending": map[string]any{
				"type":  "array",
				"items": trendingItemSchema(),
			},
		},
	}
}

func briefingSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"executiveSummary": map[string]any{"type": "string"},
			"mobileSummary":    map[string]any{"type": "string"},
			"sections": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"categoryLabel": map[string]any{"type": "string"},
						"items": map[string]any{
							"type":  "array",
							"items": newsItemSchema(),
						},
					},
				},
			},
			"trending": map[string]any{
				"type":  "array",
				"items": trendingItemSchema(),
			},
		},
	}
}
