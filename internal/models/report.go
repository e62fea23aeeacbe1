package models

import (
	"strings"
	"time"
)

type NewsItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Summary     string  `json:"summary"`
	Source      string  `json:"source"`
	URL         string  `json:"url"`
	Category    string  `json:"category"`
	ImpactScore float64 `json:"impactScore"`
	Timestamp   string  `json:"timestamp"`
}

type TrendingType string

const (
	TrendingTopic   TrendingType = "TOPIC"
	TrendingProduct TrendingType = "PRODUCT"
)

type TrendingItem struct {
	Rank     int          `json:"rank"`
	Topic    string       `json:"topic"`
	Heat     string       `json:"heat"`
	Platform string       `json:"platform"`
	Analysis string       `json:"analysis"`
	URL      string       `json:"url"`
	Type     TrendingType `json:"type"`
}

type ReportSection struct {
	CategoryLabel string     `json:"categoryLabel"`
	Items         []NewsItem `json:"items"`
}

// BriefingReport is produced wholly by one generation call and is immutable
// afterwards. CacheTimestamp is epoch milliseconds set at generation
// completion and only gates cache validity.
type BriefingReport struct {
	Date             string          `json:"date"`
	ExecutiveSummary string          `json:"executiveSummary"`
	MobileSummary    string          `json:"mobileSummary"`
	Sections         []ReportSection `json:"sections"`
	Trending         []TrendingItem  `json:"trending"`
	CacheTimestamp   int64           `json:"cacheTimestamp"`
}

// GeneratedAt converts the cache timestamp back to wall-clock time.
func (r *BriefingReport) GeneratedAt() time.Time {
	return time.UnixMilli(r.CacheTimestamp)
}

type CategoryConfig struct {
	ID    string   `json:"id" yaml:"id"`
	Label string   `json:"label" yaml:"label"`
	URLs  []string `json:"urls" yaml:"urls"`
}

// UserPreferences is the flat, user-owned push configuration record.
// Last write wins; there is a single local user.
type UserPreferences struct {
	WebhookURL        string `json:"webhookUrl"`
	BarkKey           string `json:"barkKey"`
	TelegramChatID    int64  `json:"telegramChatId"`
	EmailRecipient    string `json:"emailRecipient"`
	EmailJSServiceID  string `json:"emailJsServiceId"`
	EmailJSTemplateID string `json:"emailJsTemplateId"`
	EmailJSPublicKey  string `json:"emailJsPublicKey"`
	AutoVoiceEnabled  bool   `json:"autoVoiceEnabled"`
	PushTime          string `json:"pushTime"`
	IsAutoPushEnabled bool   `json:"isAutoPushEnabled"`
}

// EmailConfigured reports whether all four provider fields are present.
func (p UserPreferences) EmailConfigured() bool {
	return p.EmailRecipient != "" && p.EmailJSServiceID != "" &&
		p.EmailJSTemplateID != "" && p.EmailJSPublicKey != ""
}

type ChatMessage struct {
	Role  string `json:"role"`
	Parts string `json:"parts"`
}

type ReportStatus string

const (
	StatusIdle      ReportStatus = "IDLE"
	StatusFetching  ReportStatus = "FETCHING"
	StatusCompleted ReportStatus = "COMPLETED"
	StatusError     ReportStatus = "ERROR"
)

// TrendingPlatform buckets a free-text platform name for display grouping.
// This is a derived view, never stored.
type TrendingPlatform string

const (
	PlatformDouyin TrendingPlatform = "douyin"
	PlatformTikTok TrendingPlatform = "tiktok"
	PlatformOther  TrendingPlatform = "other"
)

func ClassifyPlatform(platform string) TrendingPlatform {
	p := strings.ToLower(platform)
	switch {
	case strings.Contains(p, "douyin") || strings.Contains(p, "抖音"):
		return PlatformDouyin
	case strings.Contains(p, "tiktok"):
		return PlatformTikTok
	default:
		return PlatformOther
	}
}

// GroupTrendingByPlatform partitions trending items preserving their order.
func GroupTrendingByPlatform(items []TrendingItem) map[TrendingPlatform][]TrendingItem {
	groups := make(map[TrendingPlatform][]TrendingItem)
	for _, item := range items {
		key := ClassifyPlatform(item.Platform)
		groups[key] = append(groups[key], item)
	}
	return groups
}
