package db

import (
	"context"
	"fmt"

	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newestFirst orders logs by logged_at, then insertion order, both descending.
var newestFirst = bson.D{{Key: "logged_at", Value: -1}, {Key: "_id", Value: -1}}

// MongoMileageLogCollection implements MileageLogCollection for MongoDB.
type MongoMileageLogCollection struct {
	Collection *mongo.Collection
}

// InsertMileageLog inserts an odometer reading.
func (c *MongoMileageLogCollection) InsertMileageLog(ctx context.Context, log models.MileageLog) (primitive.ObjectID, error) {
	if c.Collection == nil {
		return primitive.NilObjectID, fmt.Errorf("mongo collection is nil")
	}
	if log.ID.IsZero() {
		log.ID = primitive.NewObjectID()
	}
	if _, err := c.Collection.InsertOne(ctx, log); err != nil {
		return primitive.NilObjectID, err
	}
	return log.ID, nil
}

// FindMileageLogByID finds a mileage log by its ID.
func (c *MongoMileageLogCollection) FindMileageLogByID(ctx context.Context, id primitive.ObjectID) (*models.MileageLog, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	return findOne[models.MileageLog](ctx, c.Collection, bson.M{"_id": id})
}

// FindRecentMileageLogs returns at most limit logs of the vehicle, newest first.
func (c *MongoMileageLogCollection) FindRecentMileageLogs(ctx context.Context, vehicleID primitive.ObjectID, limit int64) ([]models.MileageLog, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(newestFirst).SetLimit(limit)
	cursor, err := c.Collection.Find(ctx, bson.M{"vehicle_id": vehicleID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.MileageLog](ctx, cursor)
}

// FindMileageLogs returns the full history of the vehicle, newest first.
func (c *MongoMileageLogCollection) FindMileageLogs(ctx context.Context, vehicleID primitive.ObjectID) ([]models.MileageLog, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"vehicle_id": vehicleID}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	return decodeAll[models.MileageLog](ctx, cursor)
}

// UpdateMileageLog replaces the reading and timestamp of a log.
func (c *MongoMileageLogCollection) UpdateMileageLog(ctx context.Context, id primitive.ObjectID, log models.MileageLog) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	update := bson.M{"$set": bson.M{"mileage": log.Mileage, "logged_at": log.LoggedAt}}
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMileageLog deletes a log by its ID.
func (c *MongoMileageLogCollection) DeleteMileageLog(ctx context.Context, id primitive.ObjectID) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMileageLogsByVehicle removes the whole history of a vehicle.
func (c *MongoMileageLogCollection) DeleteMileageLogsByVehicle(ctx context.Context, vehicleID primitive.ObjectID) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.DeleteMany(ctx, bson.M{"vehicle_id": vehicleID})
	return err
}
