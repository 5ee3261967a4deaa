package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/availability"
	"fleetbook/internal/domain/reservation"
)

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	col := db.Collection("reservations")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "vehicleId", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &ReservationRepository{col: col}
}

// ActiveSpans fetches by vehicle and filters tenancy in code so untagged
// legacy documents stay visible, the same trade-off the previous system
// made to avoid composite indexes.
func (r *ReservationRepository) ActiveSpans(ctx context.Context, tc tenant.Context, vehicleID, excludeID string) ([]availability.Span, error) {
	docs, err := r.byVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	var spans []availability.Span
	for _, doc := range docs {
		res := doc.toDomain()
		if res.ID == excludeID || !visibleTo(res.Tenant, tc) {
			continue
		}
		if res.Status == reservation.StatusCanceled {
			continue
		}
		if res.From.IsZero() || res.To.IsZero() {
			continue
		}
		spans = append(spans, availability.Span{From: res.From, To: res.To})
	}
	return spans, nil
}

func (r *ReservationRepository) ForVehicle(ctx context.Context, tc tenant.Context, vehicleID string) ([]reservation.Reservation, error) {
	docs, err := r.byVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	var out []reservation.Reservation
	for _, doc := range docs {
		res := doc.toDomain()
		if !visibleTo(res.Tenant, tc) {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *ReservationRepository) List(ctx context.Context, tc tenant.Context, vehicleID string) ([]reservation.Reservation, error) {
	filter := bson.M{}
	if vehicleID != "" {
		filter["vehicleId"] = vehicleID
	}
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []reservation.Reservation
	for cur.Next(ctx) {
		var doc reservationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		res := doc.toDomain()
		if !visibleTo(res.Tenant, tc) {
			continue
		}
		out = append(out, res)
	}
	return out, cur.Err()
}

func (r *ReservationRepository) ByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, idFilter(id)).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, reservation.ErrNotFound
		}
		return nil, err
	}
	res := doc.toDomain()
	return &res, nil
}

func (r *ReservationRepository) Patch(ctx context.Context, id string, p reservation.Patch) error {
	set := bson.M{}
	if p.Email != nil {
		set["email"] = *p.Email
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.Status != nil {
		set["status"] = string(*p.Status)
	}
	if p.From != nil {
		set["from"] = p.From.Time()
	}
	if p.To != nil {
		set["to"] = p.To.Time()
	}
	if len(set) == 0 {
		return nil
	}
	res, err := r.col.UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return reservation.ErrNotFound
	}
	return nil
}

func (r *ReservationRepository) byVehicle(ctx context.Context, vehicleID string) ([]reservationDocument, error) {
	cur, err := r.col.Find(ctx, bson.M{"vehicleId": vehicleID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []reservationDocument
	for cur.Next(ctx) {
		var doc reservationDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, cur.Err()
}

func visibleTo(ref reservation.TenantRef, tc tenant.Context) bool {
	if tc.Mode == tenant.Permissive {
		return true
	}
	return ref.Matches(tc.ID)
}

// reservationDocument tolerates the field variants of migrated records:
// dates under from/to or the older startDate/endDate, any of the flexDay
// representations, a missing siteId, and either spelling of canceled.
type reservationDocument struct {
	ID        any      `bson:"_id"`
	VehicleID string   `bson:"vehicleId"`
	SiteID    string   `bson:"siteId"`
	From      flexDay  `bson:"from"`
	To        flexDay  `bson:"to"`
	StartDate flexDay  `bson:"startDate"`
	EndDate   flexDay  `bson:"endDate"`
	Status    string   `bson:"status"`
	Email     string   `bson:"email"`
	Phone     string   `bson:"phone"`
	CreatedAt flexTime `bson:"createdAt"`
}

func (d reservationDocument) toDomain() reservation.Reservation {
	res := reservation.Reservation{
		ID:        idString(d.ID),
		VehicleID: d.VehicleID,
		Status:    reservation.NormalizeStatus(d.Status),
		Email:     d.Email,
		Phone:     d.Phone,
	}
	if d.SiteID != "" {
		res.Tenant = reservation.TaggedTenant(d.SiteID)
	} else {
		res.Tenant = reservation.UntaggedTenant()
	}
	from := d.From
	if !from.ok {
		from = d.StartDate
	}
	to := d.To
	if !to.ok {
		to = d.EndDate
	}
	if from.ok {
		res.From = from.day
	}
	if to.ok {
		res.To = to.day
	}
	if d.CreatedAt.ok {
		res.CreatedAt = d.CreatedAt.t
	}
	return res
}
