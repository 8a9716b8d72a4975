// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/store"
)

// Run exercises a store. newStore must return an empty store on each call.
func Run(t *testing.T, newStore func(t *testing.T) store.Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("Categories", func(t *testing.T) { testCategories(t, newStore(t)) })
	t.Run("Appointments", func(t *testing.T) { testAppointments(t, newStore(t)) })
	t.Run("Bids", func(t *testing.T) { testBids(t, newStore(t)) })
	t.Run("Empty", func(t *testing.T) { testEmpty(t, newStore(t)) })
}

func mustUser(t *testing.T, st store.Store, email string, doctor bool) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "hash", IsDoctor: doctor}
	if err := st.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func testUsers(t *testing.T, st store.Store) {
	ctx := context.Background()
	patient := mustUser(t, st, "p@b.com", false)
	doctor := mustUser(t, st, "d@b.com", true)
	if patient.ID == 0 || doctor.ID == patient.ID {
		t.Fatalf("ids not assigned: %d, %d", patient.ID, doctor.ID)
	}

	if err := st.CreateUser(ctx, &models.User{Email: "p@b.com", Password: "x"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("duplicate email: want ErrDuplicate, got %v", err)
	}

	got, err := st.UserByEmail(ctx, "p@b.com")
	if err != nil || got.ID != patient.ID || got.Password != "hash" {
		t.Fatalf("UserByEmail: %+v, %v", got, err)
	}
	if _, err := st.UserByEmail(ctx, "nobody@b.com"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UserByEmail unknown: %v", err)
	}
	if got, err := st.UserByID(ctx, doctor.ID); err != nil || got.Email != "d@b.com" {
		t.Fatalf("UserByID: %+v, %v", got, err)
	}
	if _, err := st.UserByID(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UserByID unknown: %v", err)
	}

	users, err := st.ListUsers(ctx, false)
	if err != nil || len(users) != 1 || users[0].ID != patient.ID {
		t.Fatalf("ListUsers(false): %+v, %v", users, err)
	}
	doctors, err := st.ListUsers(ctx, true)
	if err != nil || len(doctors) != 1 || doctors[0].ID != doctor.ID {
		t.Fatalf("ListUsers(true): %+v, %v", doctors, err)
	}

	// lookups by id ignore the role flag
	for _, u := range []*models.User{patient, doctor} {
		got, err := st.GetUser(ctx, u.ID)
		if err != nil || got.ID != u.ID || got.IsDoctor != u.IsDoctor {
			t.Fatalf("GetUser(%d): %+v, %v", u.ID, got, err)
		}
		if got.PostedAppointments == nil || got.AcceptedAppointments == nil {
			t.Fatalf("GetUser(%d): included relations are nil", u.ID)
		}
	}
	if _, err := st.GetUser(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetUser unknown: %v", err)
	}
	if users[0].PostedAppointments == nil || doctors[0].AcceptedAppointments == nil {
		t.Fatal("ListUsers: included relations are nil")
	}
}

func testCategories(t *testing.T, st store.Store) {
	ctx := context.Background()
	c := &models.Category{Name: "Dental"}
	if err := st.CreateCategory(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.ID == 0 {
		t.Fatal("id not assigned")
	}
	if err := st.CreateCategory(ctx, &models.Category{Name: "Dental"}); !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("duplicate name: want ErrDuplicate, got %v", err)
	}
	if err := st.CreateCategory(ctx, &models.Category{Name: "Vision"}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	all, err := st.ListCategories(ctx)
	if err != nil || len(all) != 2 || all[0].Name != "Dental" || all[1].Name != "Vision" {
		t.Fatalf("ListCategories: %+v, %v", all, err)
	}
	if all[0].Appointments == nil {
		t.Fatal("ListCategories: included appointments are nil")
	}
	if got, err := st.GetCategory(ctx, c.ID); err != nil || got.Name != "Dental" {
		t.Fatalf("GetCategory: %+v, %v", got, err)
	}
	if _, err := st.GetCategory(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetCategory unknown: %v", err)
	}
}

func testAppointments(t *testing.T, st store.Store) {
	ctx := context.Background()
	poster := mustUser(t, st, "p@b.com", false)
	c := &models.Category{Name: "Dental"}
	if err := st.CreateCategory(ctx, c); err != nil {
		t.Fatalf("category: %v", err)
	}

	if err := st.CreateAppointment(ctx, &models.Appointment{Title: "x", UserID: poster.ID, CategoryID: 9999}); !errors.Is(err, store.ErrInvalidReference) {
		t.Fatalf("unknown category: want ErrInvalidReference, got %v", err)
	}
	if err := st.CreateAppointment(ctx, &models.Appointment{Title: "x", UserID: 9999, CategoryID: c.ID}); !errors.Is(err, store.ErrInvalidReference) {
		t.Fatalf("unknown user: want ErrInvalidReference, got %v", err)
	}

	a := &models.Appointment{Title: "Cleaning", Price: 120, UserID: poster.ID, CategoryID: c.ID}
	if err := st.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetAppointment(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetAppointment: %v", err)
	}
	if got.User == nil || got.User.ID != poster.ID || got.Category == nil || got.Category.ID != c.ID || got.Doctor != nil {
		t.Fatalf("relations: %+v", got)
	}
	if got.Bids == nil || len(got.Bids) != 0 {
		t.Fatalf("included bids: want empty slice, got %#v", got.Bids)
	}
	if _, err := st.GetAppointment(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetAppointment unknown: %v", err)
	}

	list, err := st.ListAppointments(ctx)
	if err != nil || len(list) != 1 || list[0].Title != "Cleaning" {
		t.Fatalf("ListAppointments: %+v, %v", list, err)
	}

	users, err := st.ListUsers(ctx, false)
	if err != nil || len(users) != 1 || len(users[0].PostedAppointments) != 1 {
		t.Fatalf("posted appointments: %+v, %v", users, err)
	}
	cat, err := st.GetCategory(ctx, c.ID)
	if err != nil || len(cat.Appointments) != 1 || cat.Appointments[0].ID != a.ID {
		t.Fatalf("category appointments: %+v, %v", cat, err)
	}
}

func testBids(t *testing.T, st store.Store) {
	ctx := context.Background()
	poster := mustUser(t, st, "p@b.com", false)
	bidder := mustUser(t, st, "q@b.com", false)
	c := &models.Category{Name: "Dental"}
	if err := st.CreateCategory(ctx, c); err != nil {
		t.Fatalf("category: %v", err)
	}
	a := &models.Appointment{Title: "Cleaning", UserID: poster.ID, CategoryID: c.ID}
	if err := st.CreateAppointment(ctx, a); err != nil {
		t.Fatalf("appointment: %v", err)
	}

	if err := st.CreateBid(ctx, &models.Bid{Amount: 1, UserID: bidder.ID, AppointmentID: 9999}); !errors.Is(err, store.ErrInvalidReference) {
		t.Fatalf("unknown appointment: want ErrInvalidReference, got %v", err)
	}

	b := &models.Bid{Amount: 90, Message: "tomorrow", UserID: bidder.ID, AppointmentID: a.ID}
	if err := st.CreateBid(ctx, b); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetBid(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetBid: %v", err)
	}
	if got.Amount != 90 || got.User == nil || got.User.ID != bidder.ID || got.Appointment == nil || got.Appointment.ID != a.ID {
		t.Fatalf("bid relations: %+v", got)
	}
	if _, err := st.GetBid(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetBid unknown: %v", err)
	}

	bids, err := st.ListBids(ctx)
	if err != nil || len(bids) != 1 {
		t.Fatalf("ListBids: %+v, %v", bids, err)
	}
	apt, err := st.GetAppointment(ctx, a.ID)
	if err != nil || len(apt.Bids) != 1 || apt.Bids[0].ID != b.ID {
		t.Fatalf("appointment bids: %+v, %v", apt, err)
	}
}

func testEmpty(t *testing.T, st store.Store) {
	ctx := context.Background()
	if users, err := st.ListUsers(ctx, false); err != nil || len(users) != 0 {
		t.Fatalf("ListUsers: %+v, %v", users, err)
	}
	if cats, err := st.ListCategories(ctx); err != nil || len(cats) != 0 {
		t.Fatalf("ListCategories: %+v, %v", cats, err)
	}
	if apts, err := st.ListAppointments(ctx); err != nil || len(apts) != 0 {
		t.Fatalf("ListAppointments: %+v, %v", apts, err)
	}
	if bids, err := st.ListBids(ctx); err != nil || len(bids) != 0 {
		t.Fatalf("ListBids: %+v, %v", bids, err)
	}
	if err := st.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}
