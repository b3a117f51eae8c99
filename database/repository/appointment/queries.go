package appointmentRepo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"dencare/models"
)

// CountByStatus groups the whole ledger by status. Backs the admin
// dashboard totals.
func (r *mongoAppointmentRepo) CountByStatus(ctx context.Context) (map[models.AppointmentStatus]int64, error) {
	pipeline := []bson.D{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate appointment counts: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status models.AppointmentStatus `bson:"_id"`
		Count  int64                    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode appointment counts: %w", err)
	}

	counts := make(map[models.AppointmentStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
