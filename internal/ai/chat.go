package ai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"

	"github.com/brieflyai/brieflyai/internal/models"
)

// ChatSession is a stateful conversational assistant seeded with the analyst
// persona and a note that the current report is in context. History lives in
// memory for the life of the session only.
type ChatSession struct {
	client   openai.Client
	model    string
	history  []openai.ChatCompletionMessageParamUnion
	messages []models.ChatMessage
}

// NewAssistantChat opens a follow-up session for a completed report. The
// report itself is not re-validated.
func (c *Client) NewAssistantChat(report *models.BriefingReport) *ChatSession {
	instruction := intelPersona + "\n\n当前简报已包含 6 大维度和 Douyin/TikTok 信号。你是用户的首席智囊。"
	if report != nil {
		instruction += fmt.Sprintf("\n今日综述：%s\n行动建议：%s", report.ExecutiveSummary, report.MobileSummary)
	}

	return &ChatSession{
		client: c.client,
		model:  c.model,
		history: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instruction),
		},
	}
}

// Send appends the user message, requests a reply and records it in history.
func (s *ChatSession) Send(ctx context.Context, text string) (string, error) {
	s.history = append(s.history, openai.UserMessage(text))

	response, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    s.model,
		Messages: s.history,
	})
	if err != nil {
		return "", classifyErr(err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("同步失败：%w", fmt.Errorf("empty response from backend"))
	}

	reply := response.Choices[0].Message.Content
	s.history = append(s.history, openai.AssistantMessage(reply))
	s.messages = append(s.messages,
		models.ChatMessage{Role: "user", Parts: text},
		models.ChatMessage{Role: "model", Parts: reply},
	)
	return reply, nil
}

// Messages returns the visible conversation, system seeding excluded.
func (s *ChatSession) Messages() []models.ChatMessage {
	return s.messages
}
