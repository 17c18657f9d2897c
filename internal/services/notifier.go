package services

import (
	"context"
	"fmt"

	"journeylink_app/internal/models"
)

// Notifier delivers a message on the channel chosen in the user's preferences
type Notifier struct {
	prefs *PreferenceService
	email *EmailService
	waha  *WahaService
}

func NewNotifier(prefs *PreferenceService, email *EmailService, waha *WahaService) *Notifier {
	return &Notifier{prefs: prefs, email: email, waha: waha}
}

// Notify sends subject and body to the user. It returns the channel used;
// NotificationChannelNone means the user opted out.
func (n *Notifier) Notify(ctx context.Context, uid, emailAddr, subject, body string) (models.NotificationChannel, error) {
	pref, err := n.prefs.Get(ctx, uid)
	if err != nil {
		return "", err
	}

	switch pref.Channel {
	case models.NotificationChannelNone:
		return models.NotificationChannelNone, nil

	case models.NotificationChannelWhatsapp:
		target := pref.WhatsappNumber
		if pref.WhatsappTargetType == models.WhatsappTargetTypeGroup {
			target = pref.WhatsappGroupID
		}
		if target == "" {
			return models.NotificationChannelWhatsapp, fmt.Errorf("user %s has no WhatsApp target", uid)
		}
		return models.NotificationChannelWhatsapp, n.waha.SendMessage(ctx, target, "*"+subject+"*\n"+body)

	default:
		if emailAddr == "" {
			return models.NotificationChannelEmail, fmt.Errorf("user %s has no e-mail address", uid)
		}
		return models.NotificationChannelEmail, n.email.SendEmail([]string{emailAddr}, subject, body)
	}
}
