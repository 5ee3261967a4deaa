package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/availability"
	"fleetbook/internal/domain/reservation"
)

type RequestRepository struct {
	col *mongo.Collection
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	col := db.Collection("reservation_requests")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "vehicleId", Value: 1}, {Key: "status", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &RequestRepository{col: col}
}

func (r *RequestRepository) Create(ctx context.Context, req *reservation.Request) error {
	doc := requestDocument{
		ID:        req.ID,
		VehicleID: req.VehicleID,
		SiteID:    req.Tenant.ID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		From:      req.From.Time(),
		To:        req.To.Time(),
		Days:      req.Days,
		Type:      string(req.Type),
		Status:    req.Status,
		CreatedAt: req.CreatedAt.UTC(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *RequestRepository) PendingSpans(ctx context.Context, tc tenant.Context, vehicleID string) ([]availability.Span, error) {
	cur, err := r.col.Find(ctx, bson.M{"vehicleId": vehicleID, "status": reservation.RequestStatusNew})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var spans []availability.Span
	for cur.Next(ctx) {
		var doc pendingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		ref := reservation.UntaggedTenant()
		if doc.SiteID != "" {
			ref = reservation.TaggedTenant(doc.SiteID)
		}
		if !visibleTo(ref, tc) {
			continue
		}
		if !doc.From.ok || !doc.To.ok {
			continue
		}
		spans = append(spans, availability.Span{From: doc.From.day, To: doc.To.day})
	}
	return spans, cur.Err()
}

type requestDocument struct {
	ID        string    `bson:"_id"`
	VehicleID string    `bson:"vehicleId"`
	SiteID    string    `bson:"siteId"`
	FirstName string    `bson:"firstName"`
	LastName  string    `bson:"lastName"`
	Email     string    `bson:"email"`
	Phone     string    `bson:"phone"`
	From      time.Time `bson:"from"`
	To        time.Time `bson:"to"`
	Days      int       `bson:"days"`
	Type      string    `bson:"type"`
	Status    string    `bson:"status"`
	CreatedAt time.Time `bson:"createdAt"`
}

type pendingDocument struct {
	SiteID string  `bson:"siteId"`
	From   flexDay `bson:"from"`
	To     flexDay `bson:"to"`
}
