package appointmentRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dencare/database"
	"dencare/models"
)

// mongoAppointmentRepo implements AppointmentRepository over the
// "appointments" collection. The no-double-booking invariant is pushed to
// the storage layer: a unique index on (date, time) filtered to the
// scheduled status makes the losing insert of a race fail with a
// duplicate-key error.
type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

func NewMongoAppointmentRepo() AppointmentRepository {
	return &mongoAppointmentRepo{coll: database.Collection("appointments")}
}

func (r *mongoAppointmentRepo) Insert(ctx context.Context, appt *models.Appointment) error {
	if _, err := r.coll.InsertOne(ctx, appt); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotConflict
		}
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *mongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment %s: %w", id, err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) FindActiveByDateTime(ctx context.Context, date, clock string) (*models.Appointment, error) {
	filter := bson.M{"date": date, "time": clock, "status": models.StatusScheduled}
	var appt models.Appointment
	err := r.coll.FindOne(ctx, filter).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active appointment at %s %s: %w", date, clock, err)
	}
	return &appt, nil
}

func (r *mongoAppointmentRepo) ListByDate(ctx context.Context, date string) ([]models.Appointment, error) {
	filter := bson.M{"date": date, "status": models.StatusScheduled}
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})
	return r.list(ctx, filter, opts)
}

func (r *mongoAppointmentRepo) ListByPatient(ctx context.Context, patientID string) ([]models.Appointment, error) {
	filter := bson.M{"patientId": patientID}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	return r.list(ctx, filter, opts)
}

func (r *mongoAppointmentRepo) ListBetween(ctx context.Context, fromDate, toDate string) ([]models.Appointment, error) {
	filter := bson.M{"date": bson.M{"$gte": fromDate, "$lte": toDate}}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	return r.list(ctx, filter, opts)
}

func (r *mongoAppointmentRepo) list(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Appointment, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cur.Close(ctx)
	var appts []models.Appointment
	if err := cur.All(ctx, &appts); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) UpdateStatus(ctx context.Context, id string, from, to models.AppointmentStatus) (*models.Appointment, error) {
	filter := bson.M{"id": id, "status": from}
	update := bson.M{"$set": bson.M{"status": to, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var appt models.Appointment
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update appointment %s status: %w", id, err)
	}
	return &appt, nil
}

// Reschedule runs the cancel-original + insert-replacement pair in a Mongo
// transaction so the pair commits or aborts as one. The replacement insert
// still hits the partial unique index, so losing a race for the new slot
// surfaces as ErrSlotConflict and leaves the original untouched.
func (r *mongoAppointmentRepo) Reschedule(ctx context.Context, originalID string, replacement *models.Appointment) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{"id": originalID, "status": models.StatusScheduled}
		update := bson.M{"$set": bson.M{"status": models.StatusRescheduled, "updatedAt": time.Now().UTC()}}
		res, err := r.coll.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("mark original rescheduled: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		if _, err := r.coll.InsertOne(sc, replacement); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrSlotConflict
			}
			return fmt.Errorf("insert replacement appointment: %w", err)
		}
		return nil
	}

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}
