package calendarRepo

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

// The clinic calendar lives in a single configuration document.
const calendarDocID = "clinic-calendar"

// CalendarRepository persists the clinic's booking configuration.
type CalendarRepository interface {
	// Load returns the stored calendar, seeding the default schedule if
	// no configuration document exists yet.
	Load(ctx context.Context) (models.ClinicCalendar, error)
	// Save replaces the configuration document. Callers must have
	// validated the calendar first.
	Save(ctx context.Context, cal models.ClinicCalendar) error
}

type mongoCalendarRepo struct {
	coll *mongo.Collection
}

func NewMongoCalendarRepo() CalendarRepository {
	return &mongoCalendarRepo{coll: database.Collection("configuration")}
}

type calendarDoc struct {
	ID       string                `bson:"_id"`
	Calendar models.ClinicCalendar `bson:"calendar"`
}

func (r *mongoCalendarRepo) Load(ctx context.Context) (models.ClinicCalendar, error) {
	var doc calendarDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": calendarDocID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		cal := models.DefaultClinicCalendar()
		if err := r.Save(ctx, cal); err != nil {
			return models.ClinicCalendar{}, fmt.Errorf("seed default calendar: %w", err)
		}
		return cal, nil
	}
	if err != nil {
		return models.ClinicCalendar{}, fmt.Errorf("load clinic calendar: %w", err)
	}
	return doc.Calendar, nil
}

func (r *mongoCalendarRepo) Save(ctx context.Context, cal models.ClinicCalendar) error {
	cal.UpdatedAt = time.Now().UTC()
	doc := calendarDoc{ID: calendarDocID, Calendar: cal}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"_id": calendarDocID}, doc, opts); err != nil {
		return fmt.Errorf("save clinic calendar: %w", err)
	}
	return nil
}
