package database

import (
	"errors"
	"sort"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

var (
	ErrAppealManagerNotInitialized = errors.New("appeal data manager not initialized")
	ErrAppealAlreadyOpen           = errors.New("ya tienes una apelación abierta para esta sanción")
)

func getAppealManager() (*DataManager[models.Appeal], error) {
	if GlobalAppealDM == nil {
		return nil, ErrAppealManagerNotInitialized
	}
	return GlobalAppealDM, nil
}

// SubmitAppeal accepts and stores an appeal record. There is no review
// workflow: moderators read appeals through ListGuildAppeals.
func SubmitAppeal(guildID, userID, infractionID, message string) (*models.Appeal, error) {
	dm, err := getAppealManager()
	if err != nil {
		return nil, err
	}

	if infractionID != "" {
		existing, err := dm.GetAll(bson.M{
			"guild_id":      guildID,
			"user_id":       userID,
			"infraction_id": infractionID,
		})
		if err == nil && len(existing) > 0 {
			return nil, ErrAppealAlreadyOpen
		}
	}

	appeal := models.Appeal{
		ID:           uuid.New().String(),
		GuildID:      guildID,
		UserID:       userID,
		InfractionID: infractionID,
		Message:      message,
		CreatedAt:    time.Now(),
	}

	result, err := dm.Set(bson.M{"_id": appeal.ID}, appeal)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return &appeal, nil
	}
	return result, nil
}

// ListGuildAppeals returns a guild's appeals, newest first
func ListGuildAppeals(guildID string) ([]*models.Appeal, error) {
	dm, err := getAppealManager()
	if err != nil {
		return nil, err
	}

	appeals, err := dm.GetAll(bson.M{"guild_id": guildID})
	if err != nil {
		return nil, err
	}

	sort.Slice(appeals, func(i, j int) bool {
		return appeals[i].CreatedAt.After(appeals[j].CreatedAt)
	})
	return appeals, nil
}

// DeleteAppeal removes a handled appeal record
func DeleteAppeal(id string) error {
	dm, err := getAppealManager()
	if err != nil {
		return err
	}
	return dm.Delete(bson.M{"_id": id})
}
