package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/brieflyai/brieflyai/internal/models"
)

// DefaultCategories are the six fixed briefing categories. The labels are a
// hard constraint in the generation prompt; generated section labels are
// expected to match them exactly.
func DefaultCategories() []models.CategoryConfig {
	return []models.CategoryConfig{
		{ID: "ai_trends", Label: "AI趋势", URLs: []string{"openai.com", "anthropic.com", "deepseek.com", "jiqizhixin.com"}},
		{ID: "sentiment", Label: "舆情分析", URLs: []string{"weibo.com", "zhihu.com", "x.com", "google.com/news"}},
		{ID: "github_hot", Label: "Github热门应用", URLs: []string{"github.com/trending", "producthunt.com"}},
		{ID: "media_topics", Label: "自媒体选题", URLs: []string{"newrank.cn", "trending.topics", "douyin.com"}},
		{ID: "util_tools", Label: "实用工具", URLs: []string{"appsumo.com", "futurepedia.io", "chrome.google.com/webstore"}},
		{ID: "info_gap", Label: "信息差盈利", URLs: []string{"reddit.com/r/sidehustle", "juliang.com", "tiktok.com"}},
	}
}

type categoryFile struct {
	Categories []models.CategoryConfig `yaml:"categories"`
}

// LoadCategories reads category configs from a YAML file. A missing file is
// not an error: the built-in defaults are returned.
func LoadCategories(path string) ([]models.CategoryConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultCategories(), nil
		}
		return nil, fmt.Errorf("read category config: %w", err)
	}

	var file categoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse category config: %w", err)
	}
	if len(file.Categories) == 0 {
		return DefaultCategories(), nil
	}
	return file.Categories, nil
}
