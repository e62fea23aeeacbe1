package push

import (
	"fmt"

	"github.com/brieflyai/brieflyai/internal/models"
	"github.com/brieflyai/brieflyai/internal/sanitize"
)

// Title is the push notification subject line for a report.
func Title(report *models.BriefingReport) string {
	return fmt.Sprintf("BrieflyAI [%s] 决策研判简报", report.Date)
}

// Digest is the short plain-text body used by the webhook, Bark and telegram
// channels. Markers are stripped crudely, not via the full sanitizer.
func Digest(report *models.BriefingReport) string {
	return fmt.Sprintf("【%s】\n综述：%s\n建议：%s",
		Title(report),
		sanitize.StripMarkers(report.ExecutiveSummary),
		sanitize.StripMarkers(report.MobileSummary),
	)
}
