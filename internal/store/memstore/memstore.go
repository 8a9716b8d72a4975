// Package memstore keeps every record in process memory. It backs local
// development runs (DB_DRIVER=memory) and the handler tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/store"
)

type Store struct {
	mu           sync.RWMutex
	users        map[int]models.User
	categories   map[int]models.Category
	appointments map[int]models.Appointment
	bids         map[int]models.Bid
	seq          map[string]int

	// PingErr, when set, is returned by Ping.
	PingErr error
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		users:        make(map[int]models.User),
		categories:   make(map[int]models.Category),
		appointments: make(map[int]models.Appointment),
		bids:         make(map[int]models.Bid),
		seq:          make(map[string]int),
	}
}

func (s *Store) next(name string) int {
	s.seq[name]++
	return s.seq[name]
}

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return store.ErrDuplicate
		}
	}
	u.ID = s.next("users")
	u.CreatedAt = time.Now().UTC()
	s.users[u.ID] = bare(*u)
	return nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context, isDoctor bool) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0)
	for _, id := range sortedKeys(s.users) {
		u := s.users[id]
		if u.IsDoctor != isDoctor {
			continue
		}
		if isDoctor {
			u.AcceptedAppointments = s.appointmentsWhere(func(a models.Appointment) bool {
				return a.DoctorID != nil && *a.DoctorID == u.ID
			})
		} else {
			u.PostedAppointments = s.appointmentsWhere(func(a models.Appointment) bool { return a.UserID == u.ID })
		}
		out = append(out, u)
	}
	return out, nil
}

func (s *Store) GetUser(_ context.Context, id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	u.PostedAppointments = s.appointmentsWhere(func(a models.Appointment) bool { return a.UserID == u.ID })
	u.AcceptedAppointments = s.appointmentsWhere(func(a models.Appointment) bool {
		return a.DoctorID != nil && *a.DoctorID == u.ID
	})
	return &u, nil
}

func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, id := range sortedKeys(s.categories) {
		out = append(out, s.withAppointments(s.categories[id]))
	}
	return out, nil
}

func (s *Store) GetCategory(_ context.Context, id int) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c = s.withAppointments(c)
	return &c, nil
}

func (s *Store) CreateCategory(_ context.Context, c *models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.categories {
		if existing.Name == c.Name {
			return store.ErrDuplicate
		}
	}
	c.ID = s.next("categories")
	c.CreatedAt = time.Now().UTC()
	c.Appointments = nil
	s.categories[c.ID] = *c
	return nil
}

func (s *Store) ListAppointments(_ context.Context) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Appointment, 0, len(s.appointments))
	for _, id := range sortedKeys(s.appointments) {
		out = append(out, s.expandAppointment(s.appointments[id]))
	}
	return out, nil
}

func (s *Store) GetAppointment(_ context.Context, id int) (*models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	a = s.expandAppointment(a)
	return &a, nil
}

func (s *Store) CreateAppointment(_ context.Context, a *models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[a.UserID]; !ok {
		return store.ErrInvalidReference
	}
	if _, ok := s.categories[a.CategoryID]; !ok {
		return store.ErrInvalidReference
	}
	if a.DoctorID != nil {
		if _, ok := s.users[*a.DoctorID]; !ok {
			return store.ErrInvalidReference
		}
	}
	a.ID = s.next("appointments")
	a.CreatedAt = time.Now().UTC()
	a.User, a.Doctor, a.Category, a.Bids = nil, nil, nil, nil
	s.appointments[a.ID] = *a
	return nil
}

func (s *Store) ListBids(_ context.Context) ([]models.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Bid, 0, len(s.bids))
	for _, id := range sortedKeys(s.bids) {
		out = append(out, s.expandBid(s.bids[id]))
	}
	return out, nil
}

func (s *Store) GetBid(_ context.Context, id int) (*models.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bids[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	b = s.expandBid(b)
	return &b, nil
}

func (s *Store) CreateBid(_ context.Context, b *models.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[b.UserID]; !ok {
		return store.ErrInvalidReference
	}
	if _, ok := s.appointments[b.AppointmentID]; !ok {
		return store.ErrInvalidReference
	}
	b.ID = s.next("bids")
	b.CreatedAt = time.Now().UTC()
	b.User, b.Appointment = nil, nil
	s.bids[b.ID] = *b
	return nil
}

func (s *Store) Ping(context.Context) error { return s.PingErr }

func (s *Store) Close(context.Context) error { return nil }

// AcceptAppointment assigns a doctor to an appointment. It is a seeding
// helper for tests only: no HTTP route or service calls it, and the other
// backends have no equivalent.
func (s *Store) AcceptAppointment(appointmentID, doctorID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.appointments[appointmentID]
	if !ok {
		return store.ErrNotFound
	}
	if d, ok := s.users[doctorID]; !ok || !d.IsDoctor {
		return store.ErrInvalidReference
	}
	a.DoctorID = &doctorID
	s.appointments[appointmentID] = a
	return nil
}

// callers hold s.mu

func (s *Store) appointmentsWhere(keep func(models.Appointment) bool) []models.Appointment {
	out := make([]models.Appointment, 0)
	for _, id := range sortedKeys(s.appointments) {
		if a := s.appointments[id]; keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *Store) withAppointments(c models.Category) models.Category {
	c.Appointments = s.appointmentsWhere(func(a models.Appointment) bool { return a.CategoryID == c.ID })
	return c
}

func (s *Store) expandAppointment(a models.Appointment) models.Appointment {
	if u, ok := s.users[a.UserID]; ok {
		a.User = &u
	}
	if a.DoctorID != nil {
		if d, ok := s.users[*a.DoctorID]; ok {
			a.Doctor = &d
		}
	}
	if c, ok := s.categories[a.CategoryID]; ok {
		a.Category = &c
	}
	a.Bids = make([]models.Bid, 0)
	for _, id := range sortedKeys(s.bids) {
		if b := s.bids[id]; b.AppointmentID == a.ID {
			a.Bids = append(a.Bids, b)
		}
	}
	return a
}

func (s *Store) expandBid(b models.Bid) models.Bid {
	if u, ok := s.users[b.UserID]; ok {
		b.User = &u
	}
	if a, ok := s.appointments[b.AppointmentID]; ok {
		b.Appointment = &a
	}
	return b
}

func bare(u models.User) models.User {
	u.PostedAppointments = nil
	u.AcceptedAppointments = nil
	return u
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
