package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/internship-portal/config"
)

func TestUniversalTemplateByType(t *testing.T) {
	cfg := &config.Config{AppName: "Portal", CompanyName: "Acme", MyApplicationsURL: "https://app/my"}
	at := WithTime(time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC))

	cases := []struct {
		name string
		data map[string]any
		want []string
	}{
		{"welcome", NewWelcomeData(cfg, "Ann Lee", "ann@x.com", at), []string{"Hello Ann Lee", "Portal account has been created"}},
		{"password", NewPasswordChangedData(cfg, "Ann", "ann@x.com", at), []string{"01 May 2024, 10:30"}},
		{"reviewed", NewApplicationReviewedData(cfg, "Ann", "ann@x.com", "Go Intern", "approved"), []string{`"Go Intern" has been approved`, "https://app/my"}},
		{"contact", NewContactReceivedData(cfg, "inbox@acme.io", "Hi there", WithSender(" Bob  ", "bob@x.com", "+1 555")), []string{"Bob <bob@x.com> (+1 555)", "Hi there"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := RenderText("universal", tc.data)
			if err != nil {
				t.Fatal(err)
			}
			for _, w := range tc.want {
				if !strings.Contains(text, w) {
					t.Errorf("text missing %q:\n%s", w, text)
				}
			}
			html, err := RenderHTML("universal", tc.data)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(html, "<") {
				t.Fatalf("html looks empty: %q", html)
			}
		})
	}
}

func TestHTMLEscapesUserContent(t *testing.T) {
	cfg := &config.Config{}
	data := NewContactReceivedData(cfg, "inbox@acme.io", "<script>alert(1)</script>", WithSender("Eve", "eve@x.com", ""))
	html, err := RenderHTML("universal", data)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("message was not escaped")
	}
}

func TestDefaultFn(t *testing.T) {
	if defaultFn("x", "  ") != "x" || defaultFn("x", nil) != "x" || defaultFn("x", 0) != "x" {
		t.Fatal("empty values should fall back")
	}
	if defaultFn("x", "y") != "y" || defaultFn("x", 3) != 3 {
		t.Fatal("non-empty values should pass through")
	}
}
