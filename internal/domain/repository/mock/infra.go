package mock

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/oksasatya/internship-portal/internal/domain/entity"
	"github.com/oksasatya/internship-portal/internal/domain/repository"
)

// SessionStore keeps sessions and denied token ids in memory. TTLs are
// recorded but never enforced.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
	TTLs     map[string]time.Duration
	denied   map[string]time.Duration
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: map[string]entity.Session{},
		TTLs:     map[string]time.Duration{},
		denied:   map[string]time.Duration{},
	}
}

func (s *SessionStore) Save(ctx context.Context, sess entity.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	s.TTLs[sess.ID] = ttl
	return nil
}

func (s *SessionStore) Get(ctx context.Context, sid string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}

func (s *SessionStore) Deny(ctx context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denied[jti] = ttl
	return nil
}

func (s *SessionStore) IsDenied(ctx context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.denied[jti]
	return ok, nil
}

// Count reports the number of open sessions.
func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

var _ repository.SessionStore = (*SessionStore)(nil)

// FileStore keeps uploaded bytes by reference. UploadErr fails every upload.
type FileStore struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	UploadErr error
}

func NewFileStore() *FileStore {
	return &FileStore{Objects: map[string][]byte{}}
}

func (f *FileStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Objects[objectPath] = b
	return objectPath, nil
}

func (f *FileStore) Delete(ctx context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Objects, ref)
	return nil
}

func (f *FileStore) URL(ref string) string {
	return "/media/" + ref
}

func (f *FileStore) Has(ref string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Objects[ref]
	return ok
}

func (f *FileStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Objects)
}

// Publisher records published jobs. Err fails every publish.
type Publisher struct {
	mu   sync.Mutex
	Jobs []any
	Err  error
}

var ErrPublish = errors.New("publish failed")

func (p *Publisher) PublishJSON(ctx context.Context, body any) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Jobs = append(p.Jobs, body)
	return nil
}

func (p *Publisher) Published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.Jobs...)
}
