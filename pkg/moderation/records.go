package moderation

import (
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/database"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
)

// Records es la superficie de persistencia que usan el dispatcher y el
// reconciliador. En producción delega en el paquete database; los tests
// sustituyen un fake en memoria.
type Records interface {
	AddInfraction(inf *models.Infraction) (*models.Infraction, error)
	DeactivateInfraction(id string) (bool, error)
	DeactivateUserInfractions(guildID, userID string, types []models.InfractionType) (int64, error)
	DeactivateExpiredInfractions(now time.Time) (int64, error)

	AddSanction(s *models.Sanction) (*models.Sanction, error)
	DeactivateSanction(id string) (bool, error)
	DeactivateUserSanctions(guildID, userID string, kind models.SanctionKind) (int64, error)
	ExpiredSanctions(kind models.SanctionKind, now time.Time) ([]*models.Sanction, error)

	LogModAction(log *models.ActionLog) error
	LogAutomodEvent(event *models.AutomodEvent) error

	DeleteInactiveInfractionsBefore(cutoff time.Time) (int64, error)
	DeleteAutomodEventsBefore(cutoff time.Time) (int64, error)
}

type mongoRecords struct{}

// NewRecords returns the MongoDB backed Records used in production
func NewRecords() Records { return mongoRecords{} }

func (mongoRecords) AddInfraction(inf *models.Infraction) (*models.Infraction, error) {
	return database.AddInfraction(inf)
}

func (mongoRecords) DeactivateInfraction(id string) (bool, error) {
	return database.DeactivateInfraction(id)
}

func (mongoRecords) DeactivateUserInfractions(guildID, userID string, types []models.InfractionType) (int64, error) {
	return database.DeactivateUserInfractions(guildID, userID, types)
}

func (mongoRecords) DeactivateExpiredInfractions(now time.Time) (int64, error) {
	return database.DeactivateExpiredInfractions(now)
}

func (mongoRecords) AddSanction(s *models.Sanction) (*models.Sanction, error) {
	return database.AddSanction(s)
}

func (mongoRecords) DeactivateSanction(id string) (bool, error) {
	return database.DeactivateSanction(id)
}

func (mongoRecords) DeactivateUserSanctions(guildID, userID string, kind models.SanctionKind) (int64, error) {
	return database.DeactivateUserSanctions(guildID, userID, kind)
}

func (mongoRecords) ExpiredSanctions(kind models.SanctionKind, now time.Time) ([]*models.Sanction, error) {
	return database.ExpiredSanctions(kind, now)
}

func (mongoRecords) LogModAction(log *models.ActionLog) error {
	return database.LogModAction(log)
}

func (mongoRecords) LogAutomodEvent(event *models.AutomodEvent) error {
	return database.LogAutomodEvent(event)
}

func (mongoRecords) DeleteInactiveInfractionsBefore(cutoff time.Time) (int64, error) {
	return database.DeleteInactiveInfractionsBefore(cutoff)
}

func (mongoRecords) DeleteAutomodEventsBefore(cutoff time.Time) (int64, error) {
	return database.DeleteAutomodEventsBefore(cutoff)
}
