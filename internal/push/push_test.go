package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/brieflyai/brieflyai/internal/models"
)

func testReport() *models.BriefingReport {
	return &models.BriefingReport{
		Date:             "2025/1/15",
		ExecutiveSummary: "**AI** 领域今日三大信号",
		MobileSummary:    "建议关注 `agent` 生态",
		Sections: []models.ReportSection{
			{
				CategoryLabel: "AI趋势",
				Items: []models.NewsItem{
					{Title: "信号一", Summary: "摘要一", URL: "https://example.com/1"},
					{Title: "信号二", Summary: "摘要二", URL: "https://example.com/2"},
					{Title: "信号三", Summary: "摘要三", URL: "https://example.com/3"},
					{Title: "信号四", Summary: "摘要四", URL: "https://example.com/4"},
				},
			},
			{CategoryLabel: "舆情分析"},
		},
		CacheTimestamp: time.Now().UnixMilli(),
	}
}

func testDistributor() *Distributor {
	return NewDistributor(zap.NewNop(), nil)
}

func TestDigestStripsMarkers(t *testing.T) {
	digest := Digest(testReport())
	if strings.ContainsAny(digest, "#*`") {
		t.Errorf("digest still contains markers: %q", digest)
	}
	if !strings.Contains(digest, "BrieflyAI [2025/1/15] 决策研判简报") {
		t.Errorf("digest missing title: %q", digest)
	}
}

func TestWebhookEnvelope(t *testing.T) {
	var got webhookEnvelope
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content-type = %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	ch := &WebhookChannel{URL: srv.URL, client: srv.Client()}
	if err := ch.Send(context.Background(), testReport()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.MsgType != "text" {
		t.Errorf("msg_type = %q, want text", got.MsgType)
	}
	if !strings.Contains(got.Content.Text, "综述") {
		t.Errorf("content.text = %q", got.Content.Text)
	}
}

func TestBarkURLShape(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
	}))
	defer srv.Close()

	ch := &BarkChannel{Key: "testkey", base: srv.URL, client: srv.Client()}
	if err := ch.Send(context.Background(), testReport()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if !strings.HasPrefix(gotPath, "/testkey/") {
		t.Errorf("path = %q, want /testkey/<title>/<body>", gotPath)
	}
	if gotQuery != "group=BrieflyAI" {
		t.Errorf("query = %q, want group=BrieflyAI", gotQuery)
	}
}

func TestEmailPayloadAndErrorSurface(t *testing.T) {
	var got emailJSRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))
	defer srv.Close()

	ch := &EmailChannel{
		Recipient:  "user@example.com",
		ServiceID:  "svc",
		TemplateID: "tpl",
		PublicKey:  "pub",
		endpoint:   srv.URL,
		client:     srv.Client(),
	}
	if err := ch.Send(context.Background(), testReport()); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.ServiceID != "svc" || got.TemplateID != "tpl" || got.UserID != "pub" {
		t.Errorf("provider triple = %q/%q/%q", got.ServiceID, got.TemplateID, got.UserID)
	}
	if got.TemplateParams["to_email"] != "user@example.com" {
		t.Errorf("to_email = %q", got.TemplateParams["to_email"])
	}
	if !strings.Contains(got.TemplateParams["message_html"], "宏观决策综述") {
		t.Error("message_html missing summary block")
	}

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer failing.Close()

	ch.endpoint = failing.URL
	ch.client = failing.Client()
	err := ch.Send(context.Background(), testReport())
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("error = %v, want status and body surfaced", err)
	}
}

func TestRenderEmailHTMLCapsItems(t *testing.T) {
	html, err := RenderEmailHTML(testReport())
	if err != nil {
		t.Fatalf("RenderEmailHTML failed: %v", err)
	}
	if strings.Contains(html, "信号四") {
		t.Error("section should be capped at 3 items")
	}
	if strings.Contains(html, "舆情分析") {
		t.Error("empty section should be omitted")
	}
	if !strings.Contains(html, "AI趋势") || !strings.Contains(html, "信号三") {
		t.Error("populated section missing from html")
	}
	if strings.Contains(html, "**") {
		t.Error("summary markers not sanitized")
	}
}

func TestDistributeChannelIndependence(t *testing.T) {
	var barkHits, webhookHits atomic.Int32

	barkSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		barkHits.Add(1)
	}))
	defer barkSrv.Close()

	d := testDistributor()
	d.barkBase = barkSrv.URL
	d.client = &http.Client{Timeout: time.Second}

	// The webhook points at a closed port and fails; bark must still fire.
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		webhookHits.Add(1)
	}))
	deadURL := dead.URL
	dead.Close()

	prefs := models.UserPreferences{
		WebhookURL: deadURL,
		BarkKey:    "k",
	}
	results := d.Distribute(context.Background(), testReport(), prefs)

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	byName := map[string]Result{}
	for _, r := range results {
		byName[r.Channel] = r
	}
	if byName["webhook"].OK {
		t.Error("webhook should have failed")
	}
	if byName["webhook"].Error == "" {
		t.Error("webhook failure should carry an error message")
	}
	if !byName["bark"].OK {
		t.Errorf("bark should have succeeded: %+v", byName["bark"])
	}
	if barkHits.Load() != 1 {
		t.Errorf("bark hits = %d, want 1", barkHits.Load())
	}
	if webhookHits.Load() != 0 {
		t.Errorf("dead webhook unexpectedly reached %d times", webhookHits.Load())
	}
}

func TestChannelsForSelection(t *testing.T) {
	d := testDistributor()

	if got := d.channelsFor(models.UserPreferences{}); len(got) != 0 {
		t.Errorf("no prefs should yield no channels, got %d", len(got))
	}

	prefs := models.UserPreferences{
		WebhookURL:       "https://hook.example.com",
		BarkKey:          "k",
		EmailRecipient:   "a@b.c",
		EmailJSServiceID: "svc",
		// template id and public key missing: email must stay disabled
	}
	channels := d.channelsFor(prefs)
	if len(channels) != 2 {
		t.Fatalf("channels = %d, want 2 (webhook, bark)", len(channels))
	}
	for _, ch := range channels {
		if ch.Name() == "email" {
			t.Error("email channel enabled with incomplete config")
		}
	}
}
