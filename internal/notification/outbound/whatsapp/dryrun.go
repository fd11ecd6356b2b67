package whatsapp

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/gonotif/internal/notification/entity"
)

// DryRun logs messages instead of sending them and always reports success.
// It is selected with channel.driver "log".
type DryRun struct{}

func NewDryRun() *DryRun {
	return &DryRun{}
}

func (*DryRun) Send(ctx context.Context, phone, body string) entity.SendResult {
	slog.InfoContext(ctx, "whatsapp dry run", "phone", phone, "body_length", len(body))
	return entity.SendResult{Status: entity.SendSuccess, ProviderMessageID: "dry-run"}
}
