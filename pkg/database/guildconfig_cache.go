// Package database provides the GuildConfigCache for per-guild policy access.
package database

import (
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/errors"
	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
)

var ErrGuildConfigManagerNotInitialized = errors.New("guild config data manager not initialized")

// GuildConfigCache is the in-memory policy cache. Reads are lock-free beyond a
// RLock; only Update and Invalidate take the write path, serialized by updateMu
// so two config commands cannot interleave their read-modify-write.
type GuildConfigCache struct {
	configs  map[string]*models.GuildConfig
	mu       sync.RWMutex
	updateMu sync.Mutex
	validate *validator.Validate
}

var guildConfigCache = &GuildConfigCache{
	configs:  make(map[string]*models.GuildConfig),
	validate: validator.New(),
}

func getGuildConfigManager() (*DataManager[models.GuildConfig], error) {
	if GlobalGuildConfigDM == nil {
		return nil, ErrGuildConfigManagerNotInitialized
	}
	return GlobalGuildConfigDM, nil
}

// GetGuildConfig returns the policy for a guild. Never returns nil: a guild
// without a stored document falls back to the compiled-in defaults, which are
// persisted best-effort so the next update starts from a real record.
func GetGuildConfig(guildID string) *models.GuildConfig {
	guildConfigCache.mu.RLock()
	if cfg, ok := guildConfigCache.configs[guildID]; ok {
		guildConfigCache.mu.RUnlock()
		return cfg
	}
	guildConfigCache.mu.RUnlock()

	cfg := loadGuildConfig(guildID)

	guildConfigCache.mu.Lock()
	guildConfigCache.configs[guildID] = cfg
	guildConfigCache.mu.Unlock()

	return cfg
}

// loadGuildConfig fetches the stored policy or produces defaults
func loadGuildConfig(guildID string) *models.GuildConfig {
	dm, err := getGuildConfigManager()
	if err != nil {
		logger.Warn("Configuración solicitada sin DataManager inicializado, usando valores por defecto", "GuildConfig")
		return models.DefaultGuildConfig(guildID)
	}

	stored, err := dm.Get(bson.M{"_id": guildID})
	if err != nil {
		logger.Warn(fmt.Sprintf("Error leyendo configuración de %s, usando valores por defecto: %v", guildID, err), "GuildConfig")
		return models.DefaultGuildConfig(guildID)
	}

	if stored == nil {
		logger.Debug(fmt.Sprintf("Política de %s: %v", guildID, errors.ErrConfigurationMissing), "GuildConfig")
		cfg := models.DefaultGuildConfig(guildID)
		if _, err := dm.Set(bson.M{"_id": guildID}, cfg); err != nil {
			logger.Warn(fmt.Sprintf("No se pudo persistir la configuración por defecto de %s: %v", guildID, err), "GuildConfig")
		} else {
			logger.Debug(fmt.Sprintf("Configuración por defecto creada para %s", guildID), "GuildConfig")
		}
		return cfg
	}

	return stored
}

// UpdateGuildConfig applies a mutation to a guild's policy, validates the
// result and persists it. The cache entry is replaced on success.
func UpdateGuildConfig(guildID string, mutate func(*models.GuildConfig)) (*models.GuildConfig, error) {
	guildConfigCache.updateMu.Lock()
	defer guildConfigCache.updateMu.Unlock()

	dm, err := getGuildConfigManager()
	if err != nil {
		return nil, err
	}

	cfg := loadGuildConfig(guildID)
	updated := *cfg
	mutate(&updated)
	updated.GuildID = guildID
	updated.UpdatedAt = time.Now()

	if err := guildConfigCache.validate.Struct(&updated); err != nil {
		return nil, fmt.Errorf("configuración inválida: %w", err)
	}

	result, err := dm.Set(bson.M{"_id": guildID}, &updated)
	if err != nil {
		return nil, err
	}
	if result == nil {
		// DB offline: the write queue has it, serve the updated copy meanwhile
		result = &updated
	}

	guildConfigCache.mu.Lock()
	guildConfigCache.configs[guildID] = result
	guildConfigCache.mu.Unlock()

	return result, nil
}

// InvalidateGuildConfig drops a guild's cache entry. Called on guild removal
// and by the remote config-invalidate operation.
func InvalidateGuildConfig(guildID string) {
	guildConfigCache.mu.Lock()
	delete(guildConfigCache.configs, guildID)
	guildConfigCache.mu.Unlock()
	logger.Debug(fmt.Sprintf("Configuración de %s invalidada", guildID), "GuildConfig")
}

// CachedGuildConfigs returns the number of cached policies
func CachedGuildConfigs() int {
	guildConfigCache.mu.RLock()
	defer guildConfigCache.mu.RUnlock()
	return len(guildConfigCache.configs)
}

// resetGuildConfigCacheForTesting clears the cache between tests
func resetGuildConfigCacheForTesting() {
	guildConfigCache.mu.Lock()
	guildConfigCache.configs = make(map[string]*models.GuildConfig)
	guildConfigCache.mu.Unlock()
}
