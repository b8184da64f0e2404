package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"parkhive/database"
	"parkhive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo creates a new instance of ReservationRepository using MongoDB.
func NewMongoReservationRepo() ReservationRepository {
	coll := database.MongoClient.Database("parkhive").Collection("reservations")
	repo := &MongoReservationRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoReservationRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slot", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "user_email", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a reservation by its unique ID.
func (r *MongoReservationRepo) GetByID(id string) (*models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var res models.Reservation
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&res); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch reservation with id %s: %w", id, err)
	}
	return &res, nil
}

// GetByOwner retrieves a reservation by ID, scoped to its owner's email.
func (r *MongoReservationRepo) GetByOwner(id, email string) (*models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id, "user_email": email}
	var res models.Reservation
	if err := r.coll.FindOne(ctx, filter).Decode(&res); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch reservation %s for %s: %w", id, email, err)
	}
	return &res, nil
}

// GetBySchedule retrieves the reservation exactly matching a slot, date and interval.
func (r *MongoReservationRepo) GetBySchedule(slot int, date, startTime, endTime string) (*models.Reservation, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"slot":       slot,
		"date":       date,
		"start_time": startTime,
		"end_time":   endTime,
	}
	var res models.Reservation
	if err := r.coll.FindOne(ctx, filter).Decode(&res); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch reservation for slot %d on %s: %w", slot, date, err)
	}
	return &res, nil
}

// GetAll retrieves all reservations.
func (r *MongoReservationRepo) GetAll() ([]models.Reservation, error) {
	return r.find(bson.M{})
}

// GetByUser retrieves all reservations belonging to a user.
func (r *MongoReservationRepo) GetByUser(email string) ([]models.Reservation, error) {
	return r.find(bson.M{"user_email": email})
}

// GetBySlotDate retrieves all reservations for a slot on a date.
func (r *MongoReservationRepo) GetBySlotDate(slot int, date string) ([]models.Reservation, error) {
	return r.find(bson.M{"slot": slot, "date": date})
}

// GetByDate retrieves all reservations on a date, across all slots.
func (r *MongoReservationRepo) GetByDate(date string) ([]models.Reservation, error) {
	return r.find(bson.M{"date": date})
}

func (r *MongoReservationRepo) find(filter bson.M) ([]models.Reservation, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []models.Reservation
	for cursor.Next(ctx) {
		var res models.Reservation
		if err := cursor.Decode(&res); err != nil {
			return nil, fmt.Errorf("failed to decode reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return reservations, nil
}
