package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/internship-portal/pkg/mailer"
	mailtpl "github.com/oksasatya/internship-portal/pkg/mailer/templates"
)

func SubjectForUniversal(data map[string]any) string {
	typeStr := fmt.Sprintf("%v", data["Type"])
	switch strings.ToLower(typeStr) {
	case mailtpl.Welcome:
		return "Welcome aboard"
	case mailtpl.PasswordChanged:
		return "Your password was changed"
	case mailtpl.ApplicationReviewed:
		if st := fmt.Sprintf("%v", data["Status"]); st != "" && st != "<nil>" {
			return "Your application was " + st
		}
		return "Your application was reviewed"
	case mailtpl.ContactReceived:
		return "New contact message"
	default:
		return "Notification"
	}
}

func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// MapNamedToUniversal rewrites jobs addressed to a named template onto the
// universal template, keeping the name as the Type.
func MapNamedToUniversal(job *mailer.EmailJob) {
	switch strings.ToLower(job.Template) {
	case mailtpl.Welcome, mailtpl.PasswordChanged, mailtpl.ApplicationReviewed, mailtpl.ContactReceived:
		if job.Data == nil {
			job.Data = map[string]any{}
		}
		if _, ok := job.Data["Type"]; !ok || fmt.Sprintf("%v", job.Data["Type"]) == "" {
			job.Data["Type"] = job.Template
		}
		job.Template = "universal"
	}
}
