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

// MongoScheduleCollection implements ScheduleCollection for MongoDB.
type MongoScheduleCollection struct {
	Collection *mongo.Collection
}

// InsertSchedules bulk inserts schedules. Intervals must be positive.
func (c *MongoScheduleCollection) InsertSchedules(ctx context.Context, schedules []models.ServiceSchedule) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	if len(schedules) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(schedules))
	for _, s := range schedules {
		if s.IntervalMiles <= 0 || s.IntervalMonths <= 0 {
			return fmt.Errorf("schedule %s %s %q: intervals must be positive", s.Make, s.Model, s.ServiceType)
		}
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		docs = append(docs, s)
	}
	_, err := c.Collection.InsertMany(ctx, docs)
	return err
}

// FindSchedulesByMakeModel returns the schedules of a make/model in insertion order.
func (c *MongoScheduleCollection) FindSchedulesByMakeModel(ctx context.Context, make, model string) ([]models.ServiceSchedule, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := c.Collection.Find(ctx, bson.M{"make": make, "model": model}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.ServiceSchedule](ctx, cursor)
}
