package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/pkg/mailer"
)

func TestSubmitIsAlwaysPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pw1!")
	in := e.internship(t, "Go Backend", "IT", "Acme")

	a, err := e.workflow.Submit(ctx, u.ID, application.SubmitInput{
		InternshipID:     in.ID,
		File:             upload("cv.pdf", "resume"),
		AdditionalTitles: map[string]string{" github ": "alice"},
		Description:      "  hire me  ",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if a.Status != entity.StatusPending {
		t.Fatalf("status = %q", a.Status)
	}
	if a.UserID != u.ID || a.AdditionalTitles["github"] != "alice" || a.Description != "hire me" {
		t.Fatalf("application = %+v", a)
	}
	if !strings.HasPrefix(a.File, "apply/") || !e.m.Files.Has(a.File) {
		t.Fatalf("file ref = %q", a.File)
	}
}

func TestSubmitValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pw1!")
	in := e.internship(t, "Go Backend", "IT", "Acme")

	cases := []struct {
		name  string
		in    application.SubmitInput
		field string
	}{
		{"missing internship", application.SubmitInput{File: upload("cv.pdf", "x")}, "internship"},
		{"unknown internship", application.SubmitInput{InternshipID: 999, File: upload("cv.pdf", "x")}, "internship"},
		{"missing file", application.SubmitInput{InternshipID: in.ID}, "file"},
		{"too many extra fields", application.SubmitInput{InternshipID: in.ID, File: upload("cv.pdf", "x"),
			AdditionalTitles: map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}}, "additional_titles"},
		{"long key", application.SubmitInput{InternshipID: in.ID, File: upload("cv.pdf", "x"),
			AdditionalTitles: map[string]string{strings.Repeat("k", 101): "v"}}, "additional_titles"},
		{"empty key", application.SubmitInput{InternshipID: in.ID, File: upload("cv.pdf", "x"),
			AdditionalTitles: map[string]string{"  ": "v"}}, "additional_titles"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.workflow.Submit(ctx, u.ID, tc.in)
			wantField(t, err, tc.field)
		})
	}
	if e.m.Files.Len() != 0 {
		t.Fatalf("rejected submissions left %d files behind", e.m.Files.Len())
	}
}

func TestTransition(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pw1!")
	in := e.internship(t, "Go Backend", "IT", "Acme")
	a, _ := e.workflow.Submit(ctx, u.ID, application.SubmitInput{InternshipID: in.ID, File: upload("cv.pdf", "x")})

	_, err := e.workflow.Transition(ctx, a.ID, "promote")
	wantField(t, err, "action")

	_, err = e.workflow.Transition(ctx, 9999, "approve")
	wantErr(t, err, application.ErrNotFound)

	got, err := e.workflow.Transition(ctx, a.ID, "approve")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got.Status != entity.StatusApproved {
		t.Fatalf("status = %q", got.Status)
	}

	for _, action := range []string{"approve", "reject"} {
		if _, err := e.workflow.Transition(ctx, a.ID, action); !errors.Is(err, application.ErrConflict) {
			t.Fatalf("%s on approved application err = %v, want ErrConflict", action, err)
		}
	}
	own, _ := e.workflow.ListOwn(ctx, u.ID)
	if len(own) != 1 || own[0].Status != entity.StatusApproved {
		t.Fatalf("own applications = %+v", own)
	}

	var reviewed *mailer.EmailJob
	for _, j := range e.m.Publisher.Published() {
		job := j.(mailer.EmailJob)
		if job.Data["Type"] == "application_reviewed" {
			reviewed = &job
		}
	}
	if reviewed == nil || reviewed.To != "a@x.com" || reviewed.Data["Status"] != "approved" || reviewed.Data["InternshipTitle"] != "Go Backend" {
		t.Fatalf("review notification = %+v", reviewed)
	}
}

func TestListPendingAndOwn(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := e.register(t, "alice", "a@x.com", "Pw1!")
	bob := e.register(t, "bob", "b@x.com", "Pw1!")
	in := e.internship(t, "Go Backend", "IT", "Acme")

	a1, _ := e.workflow.Submit(ctx, alice.ID, application.SubmitInput{InternshipID: in.ID, File: upload("1.pdf", "x")})
	_, _ = e.workflow.Submit(ctx, bob.ID, application.SubmitInput{InternshipID: in.ID, File: upload("2.pdf", "x")})
	if _, err := e.workflow.Transition(ctx, a1.ID, "reject"); err != nil {
		t.Fatal(err)
	}

	pending, _ := e.workflow.ListPending(ctx)
	if len(pending) != 1 || pending[0].UserID != bob.ID {
		t.Fatalf("pending = %+v", pending)
	}
	own, _ := e.workflow.ListOwn(ctx, alice.ID)
	if len(own) != 1 || own[0].Status != entity.StatusRejected {
		t.Fatalf("alice's applications = %+v", own)
	}
}

func TestDeleteApplication(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pw1!")
	in := e.internship(t, "Go Backend", "IT", "Acme")
	a, _ := e.workflow.Submit(ctx, u.ID, application.SubmitInput{InternshipID: in.ID, File: upload("cv.pdf", "x")})

	if err := e.workflow.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if e.m.Files.Has(a.File) {
		t.Fatal("file should be removed with the application")
	}
	wantErr(t, e.workflow.Delete(ctx, a.ID), application.ErrNotFound)
}

func TestApplicationsCascadeWithInternship(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pw1!")
	in := e.internship(t, "Go Backend", "IT", "Acme")
	_, _ = e.workflow.Submit(ctx, u.ID, application.SubmitInput{InternshipID: in.ID, File: upload("cv.pdf", "x")})

	if err := e.catalog.DeleteCategory(ctx, in.CategoryID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if n, _ := e.workflow.CountApplications(ctx); n != 0 {
		t.Fatalf("applications left after cascade: %d", n)
	}
}
