package alerts

import "github.com/zeromicro/go-zero/core/logx"

// LogNotifier delivers notifications to the structured log. It stands in
// for an OS-level notification channel in headless deployments.
type LogNotifier struct{}

// Notify implements Notifier.
func (LogNotifier) Notify(title, body, icon string) {
	logx.Infow("alert fired",
		logx.Field("title", title),
		logx.Field("body", body),
		logx.Field("icon", icon),
	)
}
