// Package notify delivers the single end-of-run notification, either the
// weekly archive or the missing-SKU deficiency report.
package notify

import "context"

// Notifier sends one notification. attachmentPath may be empty for
// body-only messages. The pipeline calls this exactly once per run.
type Notifier interface {
	Notify(ctx context.Context, subject, body, attachmentPath string) error
}
