package database

import (
	"context"
	"errors"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

var ErrSanctionManagerNotInitialized = errors.New("sanction data manager not initialized")

func getSanctionManager() (*DataManager[models.Sanction], error) {
	if GlobalSanctionDM == nil {
		return nil, ErrSanctionManagerNotInitialized
	}
	return GlobalSanctionDM, nil
}

// AddSanction persists a new time-bounded sanction. No uniqueness is enforced:
// two active mutes for the same user can coexist and the reconciler sweeps
// both independently.
func AddSanction(s *models.Sanction) (*models.Sanction, error) {
	dm, err := getSanctionManager()
	if err != nil {
		return nil, err
	}

	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.Active = true

	result, err := dm.Set(bson.M{"_id": s.ID}, s)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return s, nil
	}
	return result, nil
}

// ExpiredSanctions returns every active sanction of the kind whose expiry has
// passed. Always reads the database, never the cache: the reconciler must see
// the current active flags.
func ExpiredSanctions(kind models.SanctionKind, now time.Time) ([]*models.Sanction, error) {
	dm, err := getSanctionManager()
	if err != nil {
		return nil, err
	}

	return dm.GetAll(bson.M{
		"kind":       kind,
		"active":     true,
		"expires_at": bson.M{"$lte": now},
	})
}

// ActiveSanctions returns a user's active sanctions of the kind in a guild
func ActiveSanctions(guildID, userID string, kind models.SanctionKind) ([]*models.Sanction, error) {
	dm, err := getSanctionManager()
	if err != nil {
		return nil, err
	}

	return dm.GetAll(bson.M{
		"guild_id": guildID,
		"user_id":  userID,
		"kind":     kind,
		"active":   true,
	})
}

// DeactivateSanction flips active to false exactly once via a conditional
// update. A second call for the same record matches nothing and returns
// false with no error, so a duplicate reconciler pass is a no-op.
func DeactivateSanction(id string) (bool, error) {
	dm, err := getSanctionManager()
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

// CountActiveSanctions returns how many sanctions are currently active
// across all guilds. The stats endpoint reports it.
func CountActiveSanctions() (int64, error) {
	dm, err := getSanctionManager()
	if err != nil {
		return 0, err
	}
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return 0, errors.New("database not connected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return col.CountDocuments(ctx, bson.M{"active": true})
}

// DeactivateUserSanctions deactivates every active sanction of the kind a
// user holds in a guild. Manual unmute/unban paths use this so duplicate
// active records all get lifted at once. Returns the number flipped.
func DeactivateUserSanctions(guildID, userID string, kind models.SanctionKind) (int64, error) {
	dm, err := getSanctionManager()
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
		bson.M{"guild_id": guildID, "user_id": userID, "kind": kind, "active": true},
		bson.M{"$set": bson.M{"active": false}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}
