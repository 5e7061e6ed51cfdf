package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/salmannsharif/User-Profile-Manager/internal/core/domain"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/password"
	"github.com/salmannsharif/User-Profile-Manager/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

func testHasher() *password.Hasher {
	h, err := password.NewHasher(password.StrongHash, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}

var nopLog = zerolog.Nop()

type stubCredentialRepo struct {
	identities map[string]*domain.Identity
	findErr    error
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{identities: make(map[string]*domain.Identity)}
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.Identity, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	id, ok := r.identities[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *id
	return &clone, nil
}

func (r *stubCredentialRepo) Create(_ context.Context, identity *domain.Identity) (*domain.Identity, error) {
	if _, exists := r.identities[identity.Email]; exists {
		return nil, domain.ErrIdentityExists
	}
	clone := *identity
	clone.ID = identity.Email
	r.identities[identity.Email] = &clone
	out := clone
	return &out, nil
}

type stubProfileRepo struct {
	mu       sync.Mutex
	profiles map[int64]*domain.Profile
	nextID   int64
	failWith error
}

func newStubProfileRepo() *stubProfileRepo {
	return &stubProfileRepo{profiles: make(map[int64]*domain.Profile)}
}

func cloneProfile(p *domain.Profile) *domain.Profile {
	c := *p
	if p.Image != nil {
		img := *p.Image
		c.Image = &img
	}
	return &c
}

// emailTaken mirrors the unique index on email.
func (r *stubProfileRepo) emailTaken(email string, except int64) bool {
	for id, p := range r.profiles {
		if id != except && p.Email == email {
			return true
		}
	}
	return false
}

func (r *stubProfileRepo) Create(_ context.Context, p *domain.Profile) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	if r.emailTaken(p.Email, 0) {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	c := cloneProfile(p)
	c.ID = r.nextID
	c.Version = 1
	r.profiles[c.ID] = c
	return cloneProfile(c), nil
}

func (r *stubProfileRepo) FindByID(_ context.Context, id int64) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ProfileNotFound(id)
	}
	return cloneProfile(p), nil
}

func (r *stubProfileRepo) Update(_ context.Context, id int64, mutate ports.ProfileMutator) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ProfileNotFound(id)
	}
	c := cloneProfile(p)
	if err := mutate(c); err != nil {
		return nil, err
	}
	if r.emailTaken(c.Email, id) {
		return nil, domain.ErrEmailTaken
	}
	c.Version++
	r.profiles[id] = c
	return cloneProfile(c), nil
}

func (r *stubProfileRepo) Delete(_ context.Context, id int64) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ProfileNotFound(id)
	}
	delete(r.profiles, id)
	return p, nil
}

func (r *stubProfileRepo) sorted() []*domain.Profile {
	out := make([]*domain.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, cloneProfile(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubProfileRepo) List(_ context.Context, page domain.PageRequest) ([]*domain.Profile, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.sorted()
	start := min(page.Offset(), len(all))
	end := min(start+page.Size, len(all))
	return all[start:end], int64(len(all)), nil
}

func (r *stubProfileRepo) All(_ context.Context) ([]*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sorted(), nil
}

// stubImageStore keeps bytes under generated keys, like an object store.
type stubImageStore struct {
	objects map[string][]byte
	deleted []string
	seq     int
	putErr  error
}

func newStubImageStore() *stubImageStore {
	return &stubImageStore{objects: make(map[string][]byte)}
}

func (s *stubImageStore) Put(_ context.Context, img *domain.ProfileImage, data []byte) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.seq++
	img.ObjectKey = "obj-" + string(rune('0'+s.seq))
	s.objects[img.ObjectKey] = append([]byte(nil), data...)
	return nil
}

func (s *stubImageStore) Get(_ context.Context, img *domain.ProfileImage) ([]byte, error) {
	data, ok := s.objects[img.ObjectKey]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *stubImageStore) Delete(_ context.Context, img *domain.ProfileImage) error {
	delete(s.objects, img.ObjectKey)
	s.deleted = append(s.deleted, img.ObjectKey)
	return nil
}

type recordingCleaner struct {
	keys []string
}

func (c *recordingCleaner) Enqueue(img *domain.ProfileImage) {
	c.keys = append(c.keys, img.ObjectKey)
}
