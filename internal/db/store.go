package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles the collections of the reminder service.
type Store struct {
	Customers   CustomerCollection
	Vehicles    VehicleCollection
	MileageLogs MileageLogCollection
	Schedules   ScheduleCollection

	database *mongo.Database
}

// NewStore wires the Mongo collections of database into a Store.
func NewStore(database *mongo.Database) *Store {
	return &Store{
		Customers:   &MongoCustomerCollection{Collection: database.Collection(CustomersCollection)},
		Vehicles:    &MongoVehicleCollection{Collection: database.Collection(VehiclesCollection)},
		MileageLogs: &MongoMileageLogCollection{Collection: database.Collection(MileageLogsCollection)},
		Schedules:   &MongoScheduleCollection{Collection: database.Collection(ServiceSchedulesCollection)},
		database:    database,
	}
}

// Drop removes every collection of the store and recreates the indexes.
// It is a no-op for stores not backed by a database.
func (s *Store) Drop(ctx context.Context) error {
	if s.database == nil {
		return nil
	}
	for _, name := range []string{CustomersCollection, VehiclesCollection, MileageLogsCollection, ServiceSchedulesCollection} {
		if err := s.database.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", name, err)
		}
	}
	return EnsureIndexes(ctx, s.database)
}
