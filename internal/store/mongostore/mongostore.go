// Package mongostore implements store.Store on MongoDB. Ids are integers
// drawn from a counters collection; relations are joined with $lookup.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/docbid-api/internal/models"
	"github.com/harentsoaR/docbid-api/internal/store"
)

const (
	usersColl        = "users"
	categoriesColl   = "categories"
	appointmentsColl = "appointments"
	bidsColl         = "bids"
	countersColl     = "counters"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*Store)(nil)

// Open connects, pings and makes sure the unique indexes exist.
func Open(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := &Store{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	log.Printf("mongostore: connected to database %q", database)
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := map[string]string{
		usersColl:      "email",
		categoriesColl: "name",
	}
	for coll, field := range unique {
		_, err := s.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("mongo index %s.%s: %w", coll, field, err)
		}
	}
	for coll, field := range map[string]string{appointmentsColl: "userId", bidsColl: "appointmentId"} {
		if _, err := s.db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: field, Value: 1}},
		}); err != nil {
			return fmt.Errorf("mongo index %s.%s: %w", coll, field, err)
		}
	}
	return nil
}

// nextID atomically increments and returns the sequence for name.
func (s *Store) nextID(ctx context.Context, name string) (int, error) {
	var counter struct {
		Seq int `bson:"seq"`
	}
	err := s.db.Collection(countersColl).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

func (s *Store) insert(ctx context.Context, coll string, doc any) error {
	if _, err := s.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return store.ErrDuplicate
		}
		return fmt.Errorf("insert %s: %w", coll, err)
	}
	return nil
}

type reference struct {
	coll string
	id   int
}

// checkReferences stands in for foreign keys, which mongo does not enforce.
func (s *Store) checkReferences(ctx context.Context, refs ...reference) error {
	for _, ref := range refs {
		n, err := s.db.Collection(ref.coll).CountDocuments(ctx, bson.M{"_id": ref.id}, options.Count().SetLimit(1))
		if err != nil {
			return fmt.Errorf("count %s: %w", ref.coll, err)
		}
		if n == 0 {
			return store.ErrInvalidReference
		}
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	id, err := s.nextID(ctx, usersColl)
	if err != nil {
		return err
	}
	u.ID = id
	u.CreatedAt = time.Now().UTC()
	u.PostedAppointments, u.AcceptedAppointments = nil, nil
	return s.insert(ctx, usersColl, u)
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := s.db.Collection(usersColl).FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *Store) UserByID(ctx context.Context, id int) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *Store) ListUsers(ctx context.Context, isDoctor bool) ([]models.User, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"isDoctor": isDoctor}},
		{"$sort": bson.M{"_id": 1}},
	}
	if isDoctor {
		pipeline = append(pipeline, lookupMany(appointmentsColl, "_id", "doctorId", "acceptedAppointments"))
	} else {
		pipeline = append(pipeline, lookupMany(appointmentsColl, "_id", "userId", "postedAppointments"))
	}
	out := make([]models.User, 0)
	if err := s.aggregate(ctx, usersColl, pipeline, &out); err != nil {
		return nil, err
	}
	for i := range out {
		if isDoctor {
			out[i].AcceptedAppointments = store.Included(out[i].AcceptedAppointments)
		} else {
			out[i].PostedAppointments = store.Included(out[i].PostedAppointments)
		}
	}
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"_id": id}},
		{"$limit": 1},
		lookupMany(appointmentsColl, "_id", "userId", "postedAppointments"),
		lookupMany(appointmentsColl, "_id", "doctorId", "acceptedAppointments"),
	}
	var out []models.User
	if err := s.aggregate(ctx, usersColl, pipeline, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	u := &out[0]
	u.PostedAppointments = store.Included(u.PostedAppointments)
	u.AcceptedAppointments = store.Included(u.AcceptedAppointments)
	return u, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	pipeline := []bson.M{
		{"$sort": bson.M{"_id": 1}},
		lookupMany(appointmentsColl, "_id", "categoryId", "appointments"),
	}
	out := make([]models.Category, 0)
	if err := s.aggregate(ctx, categoriesColl, pipeline, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Appointments = store.Included(out[i].Appointments)
	}
	return out, nil
}

func (s *Store) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"_id": id}},
		lookupMany(appointmentsColl, "_id", "categoryId", "appointments"),
	}
	var out []models.Category
	if err := s.aggregate(ctx, categoriesColl, pipeline, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	out[0].Appointments = store.Included(out[0].Appointments)
	return &out[0], nil
}

func (s *Store) CreateCategory(ctx context.Context, c *models.Category) error {
	id, err := s.nextID(ctx, categoriesColl)
	if err != nil {
		return err
	}
	c.ID = id
	c.CreatedAt = time.Now().UTC()
	c.Appointments = nil
	return s.insert(ctx, categoriesColl, c)
}

func appointmentIncludes() []bson.M {
	var stages []bson.M
	stages = append(stages, lookupOne(usersColl, "userId", "_id", "user")...)
	stages = append(stages, lookupOne(usersColl, "doctorId", "_id", "doctor")...)
	stages = append(stages, lookupOne(categoriesColl, "categoryId", "_id", "category")...)
	return append(stages, lookupMany(bidsColl, "_id", "appointmentId", "bids"))
}

func (s *Store) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	pipeline := append([]bson.M{{"$sort": bson.M{"_id": 1}}}, appointmentIncludes()...)
	out := make([]models.Appointment, 0)
	if err := s.aggregate(ctx, appointmentsColl, pipeline, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Bids = store.Included(out[i].Bids)
	}
	return out, nil
}

func (s *Store) GetAppointment(ctx context.Context, id int) (*models.Appointment, error) {
	pipeline := append([]bson.M{{"$match": bson.M{"_id": id}}}, appointmentIncludes()...)
	var out []models.Appointment
	if err := s.aggregate(ctx, appointmentsColl, pipeline, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	out[0].Bids = store.Included(out[0].Bids)
	return &out[0], nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	refs := []reference{{usersColl, a.UserID}, {categoriesColl, a.CategoryID}}
	if a.DoctorID != nil {
		refs = append(refs, reference{usersColl, *a.DoctorID})
	}
	if err := s.checkReferences(ctx, refs...); err != nil {
		return err
	}

	id, err := s.nextID(ctx, appointmentsColl)
	if err != nil {
		return err
	}
	a.ID = id
	a.CreatedAt = time.Now().UTC()
	a.User, a.Doctor, a.Category, a.Bids = nil, nil, nil, nil
	return s.insert(ctx, appointmentsColl, a)
}

func bidIncludes() []bson.M {
	stages := lookupOne(usersColl, "userId", "_id", "user")
	return append(stages, lookupOne(appointmentsColl, "appointmentId", "_id", "appointment")...)
}

func (s *Store) ListBids(ctx context.Context) ([]models.Bid, error) {
	pipeline := append([]bson.M{{"$sort": bson.M{"_id": 1}}}, bidIncludes()...)
	out := make([]models.Bid, 0)
	if err := s.aggregate(ctx, bidsColl, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) GetBid(ctx context.Context, id int) (*models.Bid, error) {
	pipeline := append([]bson.M{{"$match": bson.M{"_id": id}}}, bidIncludes()...)
	var out []models.Bid
	if err := s.aggregate(ctx, bidsColl, pipeline, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return &out[0], nil
}

func (s *Store) CreateBid(ctx context.Context, b *models.Bid) error {
	if err := s.checkReferences(ctx, reference{usersColl, b.UserID}, reference{appointmentsColl, b.AppointmentID}); err != nil {
		return err
	}

	id, err := s.nextID(ctx, bidsColl)
	if err != nil {
		return err
	}
	b.ID = id
	b.CreatedAt = time.Now().UTC()
	b.User, b.Appointment = nil, nil
	return s.insert(ctx, bidsColl, b)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) aggregate(ctx context.Context, coll string, pipeline []bson.M, out any) error {
	cursor, err := s.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate %s: %w", coll, err)
	}
	defer cursor.Close(ctx)
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", coll, err)
	}
	return nil
}

// lookupMany joins a to-many relation into field as an array.
func lookupMany(from, localField, foreignField, as string) bson.M {
	return bson.M{"$lookup": bson.M{
		"from":         from,
		"localField":   localField,
		"foreignField": foreignField,
		"as":           as,
	}}
}

// lookupOne joins a to-one relation and flattens it into a single embedded
// document, leaving the field absent when nothing matched.
func lookupOne(from, localField, foreignField, as string) []bson.M {
	return []bson.M{
		lookupMany(from, localField, foreignField, as),
		{"$unwind": bson.M{"path": "$" + as, "preserveNullAndEmptyArrays": true}},
	}
}
