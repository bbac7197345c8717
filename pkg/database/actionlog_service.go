package database

import (
	"context"
	"errors"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrActionLogManagerNotInitialized = errors.New("action log data manager not initialized")

// LogModAction appends a moderation action record
func LogModAction(log *models.ActionLog) error {
	if GlobalActionLogDM == nil {
		return ErrActionLogManagerNotInitialized
	}

	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := GlobalActionLogDM.Set(bson.M{"_id": log.ID}, log)
	return err
}

// LogAutomodEvent appends an automod violation record
func LogAutomodEvent(event *models.AutomodEvent) error {
	if GlobalAutomodEventDM == nil {
		return ErrActionLogManagerNotInitialized
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	_, err := GlobalAutomodEventDM.Set(bson.M{"_id": event.ID}, event)
	return err
}

// CountAutomodEventsSince counts automod violations recorded after the instant
func CountAutomodEventsSince(since time.Time) (int64, error) {
	dm := GlobalAutomodEventDM
	if dm == nil {
		return 0, ErrActionLogManagerNotInitialized
	}
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return col.CountDocuments(ctx, bson.M{"created_at": bson.M{"$gte": since}})
}

// RecentAutomodEvents returns the latest automod violations, newest first
func RecentAutomodEvents(limit int64) ([]*models.AutomodEvent, error) {
	dm := GlobalAutomodEventDM
	if dm == nil {
		return nil, ErrActionLogManagerNotInitialized
	}
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return nil, errors.New("database not connected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var events []*models.AutomodEvent
	for cursor.Next(ctx) {
		var event models.AutomodEvent
		if err := cursor.Decode(&event); err != nil {
			continue
		}
		events = append(events, &event)
	}
	return events, cursor.Err()
}

// DeleteAutomodEventsBefore removes automod records older than the cutoff.
// Used by the retention cleanup.
func DeleteAutomodEventsBefore(cutoff time.Time) (int64, error) {
	dm := GlobalAutomodEventDM
	if dm == nil {
		return 0, ErrActionLogManagerNotInitialized
	}
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := col.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
