package database

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Alias de tipos para facilitar el acceso
type BlacklistEntry = models.BlacklistEntry

var (
	ErrBlacklistManagerNotInitialized = errors.New("blacklist data manager not initialized")
	ErrBlacklistEntryNotFound         = errors.New("entrada de blacklist no encontrada")
	ErrBlacklistEntryExists           = errors.New("la entrada ya existe en la blacklist")
)

const blacklistRefreshInterval = 5 * time.Minute

// denyList is the in-memory view of the platform blacklist. Gateway events
// consult it on every message, so lookups never touch Mongo; the collection
// is the durable copy and the map gets rebuilt from it on a timer.
type denyList struct {
	mu       sync.RWMutex
	byID     map[string]*models.BlacklistEntry
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

var platformDenyList = &denyList{
	byID: make(map[string]*models.BlacklistEntry),
	done: make(chan struct{}),
}

// lookup returns the entry for id, treating expired entries as absent.
func (dl *denyList) lookup(id string) (*models.BlacklistEntry, bool) {
	dl.mu.RLock()
	defer dl.mu.RUnlock()
	entry, ok := dl.byID[id]
	if !ok || entry.Expired(time.Now()) {
		return nil, false
	}
	return entry, true
}

// peek returns the entry for id even when it already expired. The removal
// path needs this: lifting a veto has to work on stale entries too.
func (dl *denyList) peek(id string) (*models.BlacklistEntry, bool) {
	dl.mu.RLock()
	defer dl.mu.RUnlock()
	entry, ok := dl.byID[id]
	return entry, ok
}

func (dl *denyList) insert(entry *models.BlacklistEntry) {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.byID[entry.ID] = entry
}

func (dl *denyList) drop(id string) {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	delete(dl.byID, id)
}

// replace swaps the whole map and reports live and expired totals.
func (dl *denyList) replace(entries []*models.BlacklistEntry) (total, expired int) {
	now := time.Now()
	next := make(map[string]*models.BlacklistEntry, len(entries))
	for _, entry := range entries {
		next[entry.ID] = entry
		if entry.Expired(now) {
			expired++
		}
	}

	dl.mu.Lock()
	defer dl.mu.Unlock()
	dl.byID = next
	return len(next), expired
}

// snapshot copies the entries that match keep. A nil keep copies everything.
func (dl *denyList) snapshot(keep func(*models.BlacklistEntry) bool) []*models.BlacklistEntry {
	dl.mu.RLock()
	defer dl.mu.RUnlock()

	out := make([]*models.BlacklistEntry, 0, len(dl.byID))
	for _, entry := range dl.byID {
		if keep == nil || keep(entry) {
			out = append(out, entry)
		}
	}
	return out
}

func blacklistManager() (*DataManager[models.BlacklistEntry], error) {
	if GlobalBlacklistDM == nil {
		return nil, ErrBlacklistManagerNotInitialized
	}
	return GlobalBlacklistDM, nil
}

// InitBlacklistCache loads the denylist before the gateway starts delivering
// events. Called once at startup, after InitGlobalDataManagers.
func InitBlacklistCache() error {
	return RefreshBlacklistCache()
}

// StartBlacklistCacheRefresh rebuilds the in-memory denylist on a timer so
// entries written by other deployments become visible without a restart.
func StartBlacklistCacheRefresh() {
	platformDenyList.ticker = time.NewTicker(blacklistRefreshInterval)

	go func() {
		for {
			select {
			case <-platformDenyList.done:
				return
			case <-platformDenyList.ticker.C:
				if err := RefreshBlacklistCache(); err != nil {
					logger.Error("Error refrescando la blacklist: "+err.Error(), "Blacklist")
				}
			}
		}
	}()

	logger.System(fmt.Sprintf("Blacklist de plataforma activa (refresco cada %s)", blacklistRefreshInterval), "Blacklist")
}

// StopBlacklistCacheRefresh stops the refresh goroutine. Safe to call twice.
func StopBlacklistCacheRefresh() {
	platformDenyList.stopOnce.Do(func() {
		if platformDenyList.ticker != nil {
			platformDenyList.ticker.Stop()
		}
		close(platformDenyList.done)
	})
}

// RefreshBlacklistCache replaces the in-memory denylist with the current
// contents of the collection.
func RefreshBlacklistCache() error {
	dm, err := blacklistManager()
	if err != nil {
		return err
	}

	entries, err := dm.GetAll(bson.M{})
	if err != nil {
		return err
	}

	total, expired := platformDenyList.replace(entries)
	if expired > 0 {
		logger.Debug(fmt.Sprintf("Blacklist recargada: %d entradas (%d caducadas)", total, expired), "Blacklist")
	} else {
		logger.Debug(fmt.Sprintf("Blacklist recargada: %d entradas", total), "Blacklist")
	}
	return nil
}

// AddToBlacklist bars a snowflake from the platform. A nil expiresAt makes
// the veto permanent; an expired existing entry gets overwritten.
func AddToBlacklist(id string, scope models.BlacklistScope, reason, moderatorID string, expiresAt *time.Time) (*models.BlacklistEntry, error) {
	if _, live := platformDenyList.lookup(id); live {
		return nil, ErrBlacklistEntryExists
	}

	dm, err := blacklistManager()
	if err != nil {
		return nil, err
	}

	entry := models.BlacklistEntry{
		ID:          id,
		Scope:       scope,
		Reason:      reason,
		ModeratorID: moderatorID,
		CreatedAt:   time.Now(),
		ExpiresAt:   expiresAt,
	}

	stored, err := dm.Set(bson.M{"_id": id}, entry)
	if err != nil {
		return nil, err
	}
	// Sin conexión, Set encola la escritura y no devuelve documento; la
	// entrada local vale igual para el denylist.
	if stored == nil {
		stored = &entry
	}

	platformDenyList.insert(stored)
	return stored, nil
}

// RemoveFromBlacklist lifts a veto, expired or not.
func RemoveFromBlacklist(id string) error {
	if _, exists := platformDenyList.peek(id); !exists {
		return ErrBlacklistEntryNotFound
	}

	dm, err := blacklistManager()
	if err != nil {
		return err
	}
	if err := dm.Delete(bson.M{"_id": id}); err != nil {
		return err
	}

	platformDenyList.drop(id)
	return nil
}

// GetBlacklistEntry returns the entry for id, expired entries included so
// that removal flows can show what they are about to lift.
func GetBlacklistEntry(id string) (*models.BlacklistEntry, error) {
	entry, exists := platformDenyList.peek(id)
	if !exists {
		return nil, ErrBlacklistEntryNotFound
	}
	return entry, nil
}

// IsUserBlacklisted says whether a user is barred from the platform. It only
// reads the in-memory denylist: event handlers call this on every message
// and must not wait on Mongo.
func IsUserBlacklisted(userID string) (bool, *models.BlacklistEntry) {
	entry, ok := platformDenyList.lookup(userID)
	if !ok || entry.Scope != models.BlacklistUser {
		return false, nil
	}
	return true, entry
}

// IsGuildBlacklisted says whether a whole guild is barred from the platform.
func IsGuildBlacklisted(guildID string) (bool, *models.BlacklistEntry) {
	entry, ok := platformDenyList.lookup(guildID)
	if !ok || entry.Scope != models.BlacklistGuild {
		return false, nil
	}
	return true, entry
}

// GetAllBlacklistEntries returns a copy of every entry, expired included.
func GetAllBlacklistEntries() []*models.BlacklistEntry {
	return platformDenyList.snapshot(nil)
}

// GetBlacklistEntriesByScope returns a copy of the entries in one scope.
func GetBlacklistEntriesByScope(scope models.BlacklistScope) []*models.BlacklistEntry {
	return platformDenyList.snapshot(func(e *models.BlacklistEntry) bool {
		return e.Scope == scope
	})
}
