package database

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

var ErrInfractionManagerNotInitialized = errors.New("infraction data manager not initialized")

func getInfractionManager() (*DataManager[models.Infraction], error) {
	if GlobalInfractionDM == nil {
		return nil, ErrInfractionManagerNotInitialized
	}
	return GlobalInfractionDM, nil
}

// AddInfraction persists a new infraction record. ID and CreatedAt are filled
// in when absent; Active starts true.
func AddInfraction(inf *models.Infraction) (*models.Infraction, error) {
	dm, err := getInfractionManager()
	if err != nil {
		return nil, err
	}

	if inf.ID == "" {
		inf.ID = uuid.New().String()
	}
	if inf.CreatedAt.IsZero() {
		inf.CreatedAt = time.Now()
	}
	inf.Active = true

	result, err := dm.Set(bson.M{"_id": inf.ID}, inf)
	if err != nil {
		return nil, err
	}
	if result == nil {
		// DB offline: queued for sync, hand back the local copy
		return inf, nil
	}
	return result, nil
}

// ListUserInfractions returns a user's infractions in a guild, newest first
func ListUserInfractions(guildID, userID string) ([]*models.Infraction, error) {
	dm, err := getInfractionManager()
	if err != nil {
		return nil, err
	}

	infractions, err := dm.GetAll(bson.M{"guild_id": guildID, "user_id": userID})
	if err != nil {
		return nil, err
	}

	sort.Slice(infractions, func(i, j int) bool {
		return infractions[i].CreatedAt.After(infractions[j].CreatedAt)
	})
	return infractions, nil
}

// ActiveWarns returns a user's active warnings in a guild, newest first
func ActiveWarns(guildID, userID string) ([]*models.Infraction, error) {
	dm, err := getInfractionManager()
	if err != nil {
		return nil, err
	}

	warns, err := dm.GetAll(bson.M{
		"guild_id": guildID,
		"user_id":  userID,
		"type":     models.InfractionWarn,
		"active":   true,
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(warns, func(i, j int) bool {
		return warns[i].CreatedAt.After(warns[j].CreatedAt)
	})
	return warns, nil
}

// CountRecentInfractions counts a user's active infractions created within
// the last given number of days
func CountRecentInfractions(guildID, userID string, days int) (int64, error) {
	dm, err := getInfractionManager()
	if err != nil {
		return 0, err
	}
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -days)
	return col.CountDocuments(ctx, bson.M{
		"guild_id":   guildID,
		"user_id":    userID,
		"active":     true,
		"created_at": bson.M{"$gte": cutoff},
	})
}

// DeactivateInfraction flips an infraction's active flag to false exactly
// once. Returns false when the record was already inactive or does not exist.
func DeactivateInfraction(id string) (bool, error) {
	dm, err := getInfractionManager()
	if err != nil {
		return false, err
	}
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return false, errors.New("database not connected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := col.UpdateOne(ctx,
		bson.M{"_id": id, "active": true},
		bson.M{"$set": bson.M{"active": false}},
	)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount > 0, nil
}

// DeactivateUserInfractions deactivates all of a user's active infractions of
// the given types in one pass. Returns how many records changed. Used by the
// reversal commands, where duplicated records are possible and all of them
// must close together.
func DeactivateUserInfractions(guildID, userID string, types []models.InfractionType) (int64, error) {
	dm, err := getInfractionManager()
	if err != nil {
		return 0, err
	}
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return 0, errors.New("database not connected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := col.UpdateMany(ctx,
		bson.M{
			"guild_id": guildID,
			"user_id":  userID,
			"type":     bson.M{"$in": types},
			"active":   true,
		},
		bson.M{"$set": bson.M{"active": false}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// DeactivateExpiredInfractions closes every active infraction whose expiry
// has passed. Permanent infractions never store expires_at, so the filter
// cannot touch them.
func DeactivateExpiredInfractions(now time.Time) (int64, error) {
	dm, err := getInfractionManager()
	if err != nil {
		return 0, err
	}
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return 0, errors.New("database not connected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := col.UpdateMany(ctx,
		bson.M{"active": true, "expires_at": bson.M{"$lte": now}},
		bson.M{"$set": bson.M{"active": false}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// DeleteInactiveInfractionsBefore removes inactive infractions older than the
// cutoff. Used by the retention cleanup.
func DeleteInactiveInfractionsBefore(cutoff time.Time) (int64, error) {
	dm, err := getInfractionManager()
	if err != nil {
		return 0, err
	}
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := col.DeleteMany(ctx, bson.M{
		"active":     false,
		"created_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
