package ai

import (
	"errors"
	"fmt"

	"github.com/openai/openai-go/v2"
)

// User-facing failures of the generation pipeline. The handful of status
// codes the backend actually returns are mapped to fixed messages; anything
// else keeps the underlying message appended.
var (
	ErrMissingCredential = errors.New("API Key 未配置，请在环境变量中设置")
	ErrRateLimited       = errors.New("请求过于频繁，已触发限流，请稍后重试")
	ErrBadCredential     = errors.New("API Key 无效或已过期，请检查配置")
	ErrForbidden         = errors.New("权限不足：请确认 API Key 已开启搜索工具")
	ErrUnparsable        = errors.New("情报解析异常，请稍后重试")
)

// classifyErr maps a backend error to the user-facing taxonomy.
func classifyErr(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 429:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case 401:
			return fmt.Errorf("%w: %v", ErrBadCredential, err)
		case 403:
			return fmt.Errorf("%w: %v", ErrForbidden, err)
		}
	}
	return fmt.Errorf("同步失败：%w", err)
}

// IsRateLimited reports whether err belongs to the rate-limit class, the only
// class the bounded retry acts on.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
