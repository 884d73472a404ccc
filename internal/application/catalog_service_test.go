package application_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oksasatya/internship-portal/internal/application"
	"github.com/oksasatya/internship-portal/internal/domain/entity"
)

type fakeIndex struct {
	docs    map[int64]string
	removed []int64
	ids     []int64
	err     error
}

func (f *fakeIndex) Index(ctx context.Context, in *entity.Internship) error {
	if f.docs == nil {
		f.docs = map[int64]string{}
	}
	f.docs[in.ID] = in.Company.Name + "/" + in.Category.Name + "/" + in.Title
	return nil
}

func (f *fakeIndex) Remove(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	delete(f.docs, id)
	return nil
}

func (f *fakeIndex) Search(ctx context.Context, _ entity.InternshipFilter) ([]int64, error) {
	return f.ids, f.err
}

func TestNameLimits(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.catalog.CreateCategory(ctx, strings.Repeat("c", 21))
	wantField(t, err, "name")
	_, err = e.catalog.CreateCategory(ctx, "   ")
	wantField(t, err, "name")
	_, err = e.catalog.CreateCompany(ctx, strings.Repeat("c", 51))
	wantField(t, err, "name")
	if _, err := e.catalog.CreateCompany(ctx, strings.Repeat("c", 50)); err != nil {
		t.Fatalf("50 chars should be accepted: %v", err)
	}
	_, err = e.catalog.UpdateCategory(ctx, 404, "IT")
	wantErr(t, err, application.ErrNotFound)
}

func TestCreateInternshipChecksReferences(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	cat, _ := e.catalog.CreateCategory(ctx, "IT")

	_, err := e.catalog.CreateInternship(ctx, application.InternshipInput{CategoryID: &cat.ID, CompanyID: ptr(int64(77)), Title: ptr("Go")})
	wantField(t, err, "company_id")
	_, err = e.catalog.CreateInternship(ctx, application.InternshipInput{CategoryID: &cat.ID, Title: ptr("Go")})
	wantField(t, err, "company_id")

	co, _ := e.catalog.CreateCompany(ctx, "Acme")
	_, err = e.catalog.CreateInternship(ctx, application.InternshipInput{CategoryID: &cat.ID, CompanyID: &co.ID, Title: ptr(strings.Repeat("t", 256))})
	wantField(t, err, "title")

	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	in, err := e.catalog.CreateInternship(ctx, application.InternshipInput{
		CategoryID: &cat.ID, CompanyID: &co.ID, Title: ptr("Go"), Published: &published, Image: upload("logo.png", "img"),
	})
	if err != nil {
		t.Fatalf("CreateInternship: %v", err)
	}
	if in.Company.Name != "Acme" || in.Category.Name != "IT" || in.Published == nil || !e.m.Files.Has(in.Image) {
		t.Fatalf("internship = %+v", in)
	}
}

func TestPatchInternshipKeepsOtherFields(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := e.internship(t, "Go Backend", "IT", "Acme")

	got, err := e.catalog.UpdateInternship(ctx, in.ID, application.InternshipInput{Description: ptr("remote")})
	if err != nil {
		t.Fatalf("UpdateInternship: %v", err)
	}
	if got.Title != "Go Backend" || got.Description != "remote" || got.CompanyID != in.CompanyID {
		t.Fatalf("patched internship = %+v", got)
	}
	_, err = e.catalog.UpdateInternship(ctx, 999, application.InternshipInput{})
	wantErr(t, err, application.ErrNotFound)
}

func TestListInternshipsFilters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.internship(t, "Go Backend", "IT", "Acme")
	e.internship(t, "Sales Intern", "Sales", "Globex")

	cases := []struct {
		name string
		f    entity.InternshipFilter
		want int
	}{
		{"no filters", entity.InternshipFilter{}, 2},
		{"query", entity.InternshipFilter{Query: "BACKEND"}, 1},
		{"category", entity.InternshipFilter{Category: "sal"}, 1},
		{"company", entity.InternshipFilter{Company: "acme"}, 1},
		{"anded", entity.InternshipFilter{Query: "go", Company: "globex"}, 0},
		{"whitespace only", entity.InternshipFilter{Query: "  "}, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := e.catalog.ListInternships(ctx, tc.f)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tc.want {
				t.Fatalf("got %d, want %d", len(got), tc.want)
			}
		})
	}
}

func TestSearchIndexIsUsedAndFallsBack(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	idx := &fakeIndex{}
	e.catalog.Index = idx

	a := e.internship(t, "Go Backend", "IT", "Acme")
	b := e.internship(t, "Sales Intern", "Sales", "Globex")
	if len(idx.docs) != 2 || idx.docs[a.ID] != "Acme/IT/Go Backend" {
		t.Fatalf("indexed docs = %v", idx.docs)
	}

	idx.ids = []int64{b.ID, 12345, a.ID}
	got, err := e.catalog.ListInternships(ctx, entity.InternshipFilter{Query: "anything"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != b.ID || got[1].ID != a.ID {
		t.Fatalf("index order not kept or stale id not dropped: %+v", got)
	}

	idx.err = errors.New("es down")
	got, err = e.catalog.ListInternships(ctx, entity.InternshipFilter{Query: "backend"})
	if err != nil || len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("fallback = %+v, %v", got, err)
	}

	if _, err := e.catalog.UpdateCompany(ctx, a.CompanyID, "Acme Corp"); err != nil {
		t.Fatal(err)
	}
	if idx.docs[a.ID] != "Acme Corp/IT/Go Backend" {
		t.Fatalf("company rename not reindexed: %v", idx.docs)
	}
	if err := e.catalog.DeleteCompany(ctx, b.CompanyID); err != nil {
		t.Fatal(err)
	}
	if len(idx.removed) != 1 || idx.removed[0] != b.ID {
		t.Fatalf("removed = %v", idx.removed)
	}
}

func TestDeleteInternshipRemovesImage(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	in := e.internship(t, "Go Backend", "IT", "Acme")
	in, _ = e.catalog.UpdateInternship(ctx, in.ID, application.InternshipInput{Image: upload("a.png", "x")})

	if err := e.catalog.DeleteInternship(ctx, in.ID); err != nil {
		t.Fatal(err)
	}
	if e.m.Files.Has(in.Image) {
		t.Fatal("image should be deleted")
	}
	wantErr(t, e.catalog.DeleteInternship(ctx, in.ID), application.ErrNotFound)
}
