package mailer

import "embed"

const (
	FromName                   = "Welp"
	maxRetries                 = 3
	UserWelcomeTemplate        = "user_invitation.tmpl"
	ReviewNotificationTemplate = "review_notification.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
