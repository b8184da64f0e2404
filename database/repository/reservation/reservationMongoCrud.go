// File: database/repository/reservation/reservationMongoCrud.go
package reservationRepo

import (
	"fmt"
	"time"

	"parkhive/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new reservation document.
func (r *MongoReservationRepo) Create(res *models.Reservation) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	res.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, res)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

// Update overwrites an existing reservation document.
func (r *MongoReservationRepo) Update(res *models.Reservation) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": res.ID}
	update := bson.M{"$set": res}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation with id %s: %w", res.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("reservation with id %s not found", res.ID)
	}
	return nil
}

// Delete removes a reservation document by its ID.
func (r *MongoReservationRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete reservation with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("reservation with id %s not found", id)
	}
	return nil
}
