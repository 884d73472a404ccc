package application

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/internship-portal/config"
	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/pkg/mailer"
	mailtpl "github.com/oksasatya/internship-portal/pkg/mailer/templates"
)

// Notifier queues transactional emails. A nil Notifier, a nil publisher or
// MAIL_SEND_ENABLED=false turn every call into a no-op. Queue failures are
// logged and never fail the calling operation.
type Notifier struct {
	Pub    Publisher
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewNotifier(pub Publisher, cfg *config.Config, logger *logrus.Logger) *Notifier {
	return &Notifier{Pub: pub, Cfg: cfg, Logger: logger}
}

func (n *Notifier) enabled() bool {
	return n != nil && n.Pub != nil && n.Cfg != nil && n.Cfg.MailSendEnabled
}

func (n *Notifier) publish(ctx context.Context, job mailer.EmailJob) {
	if job.To == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := n.Pub.PublishJSON(ctx, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithFields(logrus.Fields{"to": job.To, "type": job.Data["Type"]}).Warn("queue email failed")
	}
}

func fullName(first, last string) string {
	return strings.TrimSpace(first + " " + last)
}

func (n *Notifier) Welcome(ctx context.Context, u *entity.User) {
	if !n.enabled() {
		return
	}
	data := mailtpl.NewWelcomeData(n.Cfg, fullName(u.FirstName, u.LastName), u.Email, mailtpl.WithTime(time.Now()))
	n.publish(ctx, mailer.EmailJob{To: u.Email, Template: "universal", Data: data})
}

func (n *Notifier) PasswordChanged(ctx context.Context, u *entity.User) {
	if !n.enabled() {
		return
	}
	data := mailtpl.NewPasswordChangedData(n.Cfg, fullName(u.FirstName, u.LastName), u.Email, mailtpl.WithTime(time.Now()))
	n.publish(ctx, mailer.EmailJob{To: u.Email, Template: "universal", Data: data})
}

func (n *Notifier) ApplicationReviewed(ctx context.Context, u *entity.User, internshipTitle string, status entity.ApplicationStatus) {
	if !n.enabled() || u == nil {
		return
	}
	data := mailtpl.NewApplicationReviewedData(n.Cfg, fullName(u.FirstName, u.LastName), u.Email, internshipTitle, string(status), mailtpl.WithTime(time.Now()))
	n.publish(ctx, mailer.EmailJob{To: u.Email, Template: "universal", Data: data})
}

func (n *Notifier) ContactReceived(ctx context.Context, m *entity.ContactMessage) {
	if !n.enabled() || n.Cfg.ContactNotifyEmail == "" {
		return
	}
	data := mailtpl.NewContactReceivedData(n.Cfg, n.Cfg.ContactNotifyEmail, m.Message,
		mailtpl.WithSender(fullName(m.FirstName, m.LastName), m.Email, m.PhoneNumber),
		mailtpl.WithTime(m.CreatedAt))
	n.publish(ctx, mailer.EmailJob{To: n.Cfg.ContactNotifyEmail, Template: "universal", Data: data})
}
