package mail

import (
	"fmt"

	"github.com/shopstack-backend/internal/domain/shared"
)

// Render turns a mail event into a subject line and plain-text body using the
// template matching its kind. Unknown kinds return an error so the worker can
// route the event to the dead letter queue.
func Render(event *shared.MailEvent) (subject, body string, err error) {
	f := event.Fields
	switch event.Kind {
	case shared.MailKindOTP:
		subject = "Your verification code"
		body = fmt.Sprintf(
			"Hello,\n\nYour one-time verification code is %s.\n\nThe code expires in %s. If you did not request it, you can ignore this email.\n",
			f["code"], f["ttl"])

	case shared.MailKindOrderConfirmation:
		subject = fmt.Sprintf("Order %s confirmed", f["order_id"])
		body = fmt.Sprintf(
			"Hello %s,\n\nThanks for your purchase. Your order %s totalling %s has been placed and is pending confirmation.\n\nWe will email you again when it ships.\n",
			f["name"], f["order_id"], f["total"])

	case shared.MailKindOrderStatus:
		subject = fmt.Sprintf("Order %s update: %s", f["order_id"], f["status"])
		body = fmt.Sprintf(
			"Hello %s,\n\nYour order %s is now %s.\n",
			f["name"], f["order_id"], f["status"])

	case shared.MailKindNewsletter:
		subject = f["title"]
		body = fmt.Sprintf(
			"%s\n\nRead the full post: %s\n\nYou are receiving this because you subscribed to our newsletter.\n",
			f["excerpt"], f["url"])

	case shared.MailKindContact:
		subject = fmt.Sprintf("Contact form: %s", f["subject"])
		body = fmt.Sprintf(
			"From: %s <%s>\n\n%s\n",
			f["name"], f["email"], f["message"])

	default:
		return "", "", fmt.Errorf("no template for mail kind %q", event.Kind)
	}

	return subject, body, nil
}
