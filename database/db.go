package database

import (
	"context"
	"log"
	"time"

	"parkhive/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the shared client for the reservation store.
var MongoClient *mongo.Client

// InitDB connects the shared client to the reservation store. The process
// cannot serve anything without it, so a failed connection is fatal.
func InitDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.AppConfig.DatabaseURL))
	if err != nil {
		log.Fatalf("failed to connect to the reservation store: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping the reservation store: %v", err)
	}

	MongoClient = client
	log.Println("Reservation store connection established")
}
