package mongo

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fleetbook/internal/domain/calendar"
	"fleetbook/internal/domain/vehicle"
)

type VehicleRepository struct {
	col *mongo.Collection
}

func NewVehicleRepository(db *mongo.Database) *VehicleRepository {
	return &VehicleRepository{col: db.Collection("vehicles")}
}

func (r *VehicleRepository) ByID(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	var doc vehicleDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, vehicle.ErrNotFound
		}
		return nil, err
	}
	v := doc.toDomain()
	return &v, nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]vehicle.Vehicle, error) {
	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []vehicle.Vehicle
	for cur.Next(ctx) {
		var doc vehicleDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	// newest first, ties by name, mirroring the storefront ordering
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type vehicleDocument struct {
	ID           any      `bson:"_id"`
	Name         string   `bson:"name"`
	VehicleType  string   `bson:"vehicleType"`
	Motorization string   `bson:"motorization"`
	Summary      string   `bson:"summary"`
	BlockedDates []string `bson:"blockedDates"`
	CreatedAt    flexTime `bson:"createdAt"`
}

func (d vehicleDocument) toDomain() vehicle.Vehicle {
	v := vehicle.Vehicle{
		ID:      idString(d.ID),
		Name:    d.Name,
		Summary: d.Summary,
	}
	v.Category = d.VehicleType
	if v.Category == "" {
		v.Category = d.Motorization
	}
	for _, raw := range d.BlockedDates {
		if raw == "" {
			continue
		}
		if len(raw) > 10 {
			raw = raw[:10]
		}
		if day, err := calendar.Parse(raw); err == nil {
			v.BlockedDays = append(v.BlockedDays, day)
		}
	}
	if d.CreatedAt.ok {
		v.CreatedAt = d.CreatedAt.t
	}
	return v
}
