// Package pgstore implements store.Store on PostgreSQL through gorm.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/store"
)

// postgres SQLSTATE codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

// Open connects with dsn and migrates the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	s := New(db)
	if err := s.Ping(ctx); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	// Parents before children so foreign keys resolve.
	if err := db.WithContext(ctx).AutoMigrate(&models.User{}, &models.Category{}, &models.Appointment{}, &models.Bid{}); err != nil {
		return nil, fmt.Errorf("postgres migrate: %w", err)
	}
	log.Println("pgstore: schema migrated")
	return s, nil
}

// New wraps an already opened gorm handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicate
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return store.ErrInvalidReference
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return store.ErrDuplicate
		case foreignKeyViolation:
			return store.ErrInvalidReference
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	u.PostedAppointments, u.AcceptedAppointments = nil, nil
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error, "create user")
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&u).Error; err != nil {
		return nil, translate(err, "user by email")
	}
	return &u, nil
}

func (s *Store) UserByID(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user by id")
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context, isDoctor bool) ([]models.User, error) {
	relation := "PostedAppointments"
	if isDoctor {
		relation = "AcceptedAppointments"
	}
	users := make([]models.User, 0)
	err := s.db.WithContext(ctx).
		Preload(relation, orderByID).
		Where("is_doctor = ?", isDoctor).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "list users")
	}
	for i := range users {
		if isDoctor {
			users[i].AcceptedAppointments = store.Included(users[i].AcceptedAppointments)
		} else {
			users[i].PostedAppointments = store.Included(users[i].PostedAppointments)
		}
	}
	return users, nil
}

func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Preload("PostedAppointments", orderByID).
		Preload("AcceptedAppointments", orderByID).
		First(&u, id).Error
	if err != nil {
		return nil, translate(err, "get user")
	}
	u.PostedAppointments = store.Included(u.PostedAppointments)
	u.AcceptedAppointments = store.Included(u.AcceptedAppointments)
	return &u, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := s.db.WithContext(ctx).Preload("Appointments", orderByID).Order("id").Find(&categories).Error; err != nil {
		return nil, translate(err, "list categories")
	}
	for i := range categories {
		categories[i].Appointments = store.Included(categories[i].Appointments)
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	var c models.Category
	if err := s.db.WithContext(ctx).Preload("Appointments", orderByID).First(&c, id).Error; err != nil {
		return nil, translate(err, "get category")
	}
	c.Appointments = store.Included(c.Appointments)
	return &c, nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	c.Appointments = nil
	return translate(s.db.WithContext(ctx).Create(c).Error, "create category")
}

func appointmentIncludes(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Doctor").Preload("Category").Preload("Bids", orderByID)
}

func (s *Store) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	appointments := make([]models.Appointment, 0)
	if err := s.db.WithContext(ctx).Scopes(appointmentIncludes).Order("id").Find(&appointments).Error; err != nil {
		return nil, translate(err, "list appointments")
	}
	for i := range appointments {
		appointments[i].Bids = store.Included(appointments[i].Bids)
	}
	return appointments, nil
}

func (s *Store) GetAppointment(ctx context.Context, id int) (*models.Appointment, error) {
	var a models.Appointment
	if err := s.db.WithContext(ctx).Scopes(appointmentIncludes).First(&a, id).Error; err != nil {
		return nil, translate(err, "get appointment")
	}
	a.Bids = store.Included(a.Bids)
	return &a, nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	a.User, a.Doctor, a.Category, a.Bids = nil, nil, nil, nil
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error, "create appointment")
}

func bidIncludes(db *gorm.DB) *gorm.DB {
	return db.Preload("User").Preload("Appointment")
}

func (s *Store) ListBids(ctx context.Context) ([]models.Bid, error) {
	bids := make([]models.Bid, 0)
	if err := s.db.WithContext(ctx).Scopes(bidIncludes).Order("id").Find(&bids).Error; err != nil {
		return nil, translate(err, "list bids")
	}
	return bids, nil
}

func (s *Store) GetBid(ctx context.Context, id int) (*models.Bid, error) {
	var b models.Bid
	if err := s.db.WithContext(ctx).Scopes(bidIncludes).First(&b, id).Error; err != nil {
		return nil, translate(err, "get bid")
	}
	return &b, nil
}

func (s *Store) CreateBid(ctx context.Context, b *models.Bid) error {
	b.User, b.Appointment = nil, nil
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error, "create bid")
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}
