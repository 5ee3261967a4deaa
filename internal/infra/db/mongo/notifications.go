package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/notification"
	"fleetbook/internal/domain/reservation"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	col := db.Collection("notifications")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "createdAt", Value: -1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &NotificationRepository{col: col}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	doc := notificationDocument{
		ID:              n.ID,
		SiteID:          n.Tenant.ID(),
		Type:            n.Type,
		RequestID:       n.RequestID,
		VehicleID:       n.VehicleID,
		VehicleName:     n.VehicleName,
		VehicleCategory: n.VehicleCategory,
		ReservationType: string(n.ReservationType),
		FirstName:       n.FirstName,
		LastName:        n.LastName,
		Email:           n.Email,
		Phone:           n.Phone,
		From:            n.From.Time(),
		To:              n.To.Time(),
		Read:            n.Read,
		CreatedAt:       n.CreatedAt.UTC(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *NotificationRepository) List(ctx context.Context, tc tenant.Context, unreadOnly bool, limit int) ([]notification.Notification, error) {
	filter := tenantFilter(tc)
	if unreadOnly {
		// legacy documents without a read field count as unread
		filter["read"] = bson.M{"$ne": true}
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []notification.Notification
	for cur.Next(ctx) {
		var doc notificationReadDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *NotificationRepository) ByID(ctx context.Context, id string) (*notification.Notification, error) {
	var doc notificationReadDocument
	if err := r.col.FindOne(ctx, idFilter(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notification.ErrNotFound
		}
		return nil, err
	}
	n := doc.toDomain()
	return &n, nil
}

func (r *NotificationRepository) SetRead(ctx context.Context, id string, read bool) error {
	res, err := r.col.UpdateOne(ctx, idFilter(id), bson.M{"$set": bson.M{"read": read}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, tc tenant.Context, max int) (int, error) {
	filter := tenantFilter(tc)
	filter["read"] = bson.M{"$ne": true}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if max > 0 {
		opts = opts.SetLimit(int64(max))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var ids []any
	for cur.Next(ctx) {
		var doc struct {
			ID any `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return 0, err
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := r.col.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return int(res.ModifiedCount), nil
}

func tenantFilter(tc tenant.Context) bson.M {
	if tc.Mode == tenant.Permissive {
		return bson.M{}
	}
	// untagged legacy records stay visible to every tenant
	return bson.M{"$or": bson.A{
		bson.M{"siteId": tc.ID},
		bson.M{"siteId": bson.M{"$exists": false}},
		bson.M{"siteId": ""},
	}}
}

type notificationDocument struct {
	ID              string    `bson:"_id"`
	SiteID          string    `bson:"siteId"`
	Type            string    `bson:"type"`
	RequestID       string    `bson:"requestId"`
	VehicleID       string    `bson:"vehicleId"`
	VehicleName     string    `bson:"vehicleName,omitempty"`
	VehicleCategory string    `bson:"vehicleCategory,omitempty"`
	ReservationType string    `bson:"reservationType"`
	FirstName       string    `bson:"firstName"`
	LastName        string    `bson:"lastName"`
	Email           string    `bson:"email"`
	Phone           string    `bson:"phone"`
	From            time.Time `bson:"from"`
	To              time.Time `bson:"to"`
	Read            bool      `bson:"read"`
	CreatedAt       time.Time `bson:"createdAt"`
}

type notificationReadDocument struct {
	ID              any      `bson:"_id"`
	SiteID          string   `bson:"siteId"`
	Type            string   `bson:"type"`
	RequestID       string   `bson:"requestId"`
	VehicleID       string   `bson:"vehicleId"`
	VehicleName     string   `bson:"vehicleName"`
	VehicleCategory string   `bson:"vehicleCategory"`
	ReservationType string   `bson:"reservationType"`
	FirstName       string   `bson:"firstName"`
	LastName        string   `bson:"lastName"`
	Email           string   `bson:"email"`
	Phone           string   `bson:"phone"`
	From            flexDay  `bson:"from"`
	To              flexDay  `bson:"to"`
	Read            bool     `bson:"read"`
	CreatedAt       flexTime `bson:"createdAt"`
}

func (d notificationReadDocument) toDomain() notification.Notification {
	n := notification.Notification{
		ID:              idString(d.ID),
		Type:            d.Type,
		RequestID:       d.RequestID,
		VehicleID:       d.VehicleID,
		VehicleName:     d.VehicleName,
		VehicleCategory: d.VehicleCategory,
		ReservationType: reservation.ParseRequestType(d.ReservationType),
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Email:           d.Email,
		Phone:           d.Phone,
		Read:            d.Read,
	}
	if d.SiteID != "" {
		n.Tenant = reservation.TaggedTenant(d.SiteID)
	} else {
		n.Tenant = reservation.UntaggedTenant()
	}
	if d.From.ok {
		n.From = d.From.day
	}
	if d.To.ok {
		n.To = d.To.day
	}
	if d.CreatedAt.ok {
		n.CreatedAt = d.CreatedAt.t
	}
	return n
}
