package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCustomerCollection implements CustomerCollection for MongoDB.
type MongoCustomerCollection struct {
	Collection *mongo.Collection
}

// InsertCustomer validates and inserts a customer, assigning an id and creation time when missing.
func (c *MongoCustomerCollection) InsertCustomer(ctx context.Context, customer models.Customer) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	if customer.ID.IsZero() {
		customer.ID = primitive.NewObjectID()
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = time.Now().UTC()
	}
	if customer.PreferredReminderType == "" {
		customer.PreferredReminderType = models.PreferEmail
	}
	if err := customer.Validate(); err != nil {
		return primitive.NilObjectID, err
	}
	if _, err := c.Collection.InsertOne(ctx, customer); err != nil {
		return primitive.NilObjectID, err
	}
	return customer.ID, nil
}

// FindCustomerByID finds a customer by its ID.
func (c *MongoCustomerCollection) FindCustomerByID(ctx context.Context, id primitive.ObjectID) (*models.Customer, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	return findOne[models.Customer](ctx, c.Collection, bson.M{"_id": id})
}
