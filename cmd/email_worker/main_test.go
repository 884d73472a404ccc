package main

import (
	"strings"
	"testing"

	"github.com/oksasatya/internship-portal/pkg/mailer"
)

func TestRenderNamedTemplate(t *testing.T) {
	job := &mailer.EmailJob{
		To:       "ann@x.com",
		Template: "welcome",
		Data:     map[string]any{"Name": "Ann", "AppName": "Portal"},
	}
	subject, text, html, err := render(job)
	if err != nil {
		t.Fatal(err)
	}
	if subject != "Welcome aboard" {
		t.Fatalf("subject = %q", subject)
	}
	if !strings.Contains(text, "Hello Ann") || !strings.Contains(html, "Ann") {
		t.Fatalf("body not rendered:\n%s", text)
	}
}

func TestRenderRawJob(t *testing.T) {
	job := &mailer.EmailJob{To: "a@b.co", Subject: "Hi", Text: "plain", HTML: "<p>plain</p>"}
	subject, text, html, err := render(job)
	if err != nil || subject != "Hi" || text != "plain" || html != "<p>plain</p>" {
		t.Fatalf("render = %q %q %q %v", subject, text, html, err)
	}
}

func TestRenderKeepsExplicitSubject(t *testing.T) {
	job := &mailer.EmailJob{To: "a@b.co", Subject: "Custom", Template: "universal", Data: map[string]any{"Type": "password_changed"}}
	subject, _, _, err := render(job)
	if err != nil || subject != "Custom" {
		t.Fatalf("subject = %q, err = %v", subject, err)
	}
}

func TestRenderUnknownTemplateFails(t *testing.T) {
	if _, _, _, err := render(&mailer.EmailJob{To: "a@b.co", Template: "missing"}); err == nil {
		t.Fatal("expected an error for a template that does not exist")
	}
}
