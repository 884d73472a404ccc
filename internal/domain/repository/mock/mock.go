package mock

import (
	"sync"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
)

// Mocks bundles in-memory repositories sharing one dataset, so foreign-key
// cascades behave like the database.
type Mocks struct {
	Users        *UserRepo
	Profiles     *ProfileRepo
	Categories   *CategoryRepo
	Companies    *CompanyRepo
	Internships  *InternshipRepo
	Applications *ApplicationRepo
	Contacts     *ContactRepo
	Sessions     *SessionStore
	Files        *FileStore
	Publisher    *Publisher
}

func NewMocks() *Mocks {
	d := &db{
		users:       map[int64]entity.User{},
		profiles:    map[int64]entity.Profile{},
		categories:  map[int64]entity.Category{},
		companies:   map[int64]entity.Company{},
		internships: map[int64]entity.Internship{},
		apps:        map[int64]entity.Application{},
		contacts:    map[int64]entity.ContactMessage{},
	}
	return &Mocks{
		Users:        &UserRepo{db: d},
		Profiles:     &ProfileRepo{db: d},
		Categories:   &CategoryRepo{db: d},
		Companies:    &CompanyRepo{db: d},
		Internships:  &InternshipRepo{db: d},
		Applications: &ApplicationRepo{db: d},
		Contacts:     &ContactRepo{db: d},
		Sessions:     NewSessionStore(),
		Files:        NewFileStore(),
		Publisher:    &Publisher{},
	}
}

type db struct {
	mu  sync.Mutex
	seq int64

	users       map[int64]entity.User
	profiles    map[int64]entity.Profile // keyed by user id
	categories  map[int64]entity.Category
	companies   map[int64]entity.Company
	internships map[int64]entity.Internship
	apps        map[int64]entity.Application
	contacts    map[int64]entity.ContactMessage
}

func (d *db) next() int64 {
	d.seq++
	return d.seq
}

// cascade helpers; callers hold d.mu.

func (d *db) dropAppsWhere(match func(entity.Application) bool) {
	for id, a := range d.apps {
		if match(a) {
			delete(d.apps, id)
		}
	}
}

func (d *db) dropInternshipsWhere(match func(entity.Internship) bool) {
	for id, in := range d.internships {
		if match(in) {
			delete(d.internships, id)
			d.dropAppsWhere(func(a entity.Application) bool { return a.InternshipID == id })
		}
	}
}

func (d *db) withRelations(in entity.Internship) entity.Internship {
	in.Company = d.companies[in.CompanyID]
	in.Category = d.categories[in.CategoryID]
	return in
}

func copyTitles(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
