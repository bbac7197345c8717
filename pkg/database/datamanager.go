package database

import (
	"container/list"
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	stderrors "errors"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// lruCache is the document cache shared by every DataManager. One list, one
// lock: the bot reads a handful of small policy documents, not bulk data.
type lruCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List
}

type cacheEntry struct {
	key   string
	value interface{}
}

func newLRUCache() *lruCache {
	return &lruCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
	}
}

func (c *lruCache) get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*cacheEntry).value, true
}

// put inserts or refreshes a key and evicts the coldest entry past max.
func (c *lruCache) put(key string, value interface{}, max int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value = &cacheEntry{key: key, value: value}
		c.order.MoveToFront(elem)
		return
	}

	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, value: value})

	if max > 0 && c.order.Len() > max {
		oldest := c.order.Back()
		if oldest != nil {
			delete(c.entries, oldest.Value.(*cacheEntry).key)
			c.order.Remove(oldest)
		}
	}
}

func (c *lruCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

var sharedCache = newLRUCache()

// SharedCacheSize returns how many documents the shared cache holds
func SharedCacheSize() int {
	return sharedCache.len()
}

// global DataManagers for shared collections
var (
	GlobalGuildConfigDM  *DataManager[models.GuildConfig]
	GlobalInfractionDM   *DataManager[models.Infraction]
	GlobalSanctionDM     *DataManager[models.Sanction]
	GlobalActionLogDM    *DataManager[models.ActionLog]
	GlobalAutomodEventDM *DataManager[models.AutomodEvent]
	GlobalAppealDM       *DataManager[models.Appeal]
	GlobalBlacklistDM    *DataManager[models.BlacklistEntry]
)

// InitGlobalDataManagers initializes shared DataManager instances
func InitGlobalDataManagers(db *Database) {
	GlobalGuildConfigDM = NewDataManager[models.GuildConfig]("guild_configs", db)
	GlobalInfractionDM = NewDataManager[models.Infraction]("infractions", db)
	GlobalSanctionDM = NewDataManager[models.Sanction]("sanctions", db)
	GlobalActionLogDM = NewDataManager[models.ActionLog]("action_logs", db)
	GlobalAutomodEventDM = NewDataManager[models.AutomodEvent]("automod_events", db)
	GlobalAppealDM = NewDataManager[models.Appeal]("appeals", db)
	GlobalBlacklistDM = NewDataManager[models.BlacklistEntry]("blacklist", db)
}

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
	}
}

// DataManager provides cached access to one MongoDB collection. The
// collection handle is resolved per call so managers created while the
// database was offline start working after the reconnect.
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	options    DataManagerOptions
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		options:    dmOptions,
	}
}

// col resolves the live collection handle, nil while offline
func (dm *DataManager[T]) col() *mongo.Collection {
	return dm.dbInstance.GetCollection(dm.name)
}

// generateCacheKey creates a deterministic key from a query. Keys are
// sorted so map iteration order never splits one query across two entries.
func (dm *DataManager[T]) generateCacheKey(query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}

	return fmt.Sprintf("%s:{%s}", dm.name, strings.Join(parts, ","))
}

// connectionLost reports whether an operation failed because the connection
// is gone rather than because of the operation itself
func connectionLost(err error) bool {
	return mongo.IsTimeout(err) || stderrors.Is(err, mongo.ErrClientDisconnected)
}

// Get retrieves a document from cache or database. A missing document is
// (nil, nil).
func (dm *DataManager[T]) Get(query bson.M) (*T, error) {
	cacheKey := dm.generateCacheKey(query)

	if cached, ok := sharedCache.get(cacheKey); ok {
		return cached.(*T), nil
	}

	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return nil, fmt.Errorf("sin conexión a la base de datos")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var result T
	if err := col.FindOne(ctx, query).Decode(&result); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if connectionLost(err) {
			dm.dbInstance.MarkDisconnected()
		}
		logger.Warn(fmt.Sprintf("Fallo al leer '%s': %v", dm.name, err), "DataManager")
		return nil, err
	}

	sharedCache.put(cacheKey, &result, dm.options.MaxCacheSize)
	return &result, nil
}

// GetAll retrieves all documents matching a query, bypassing the cache
func (dm *DataManager[T]) GetAll(query bson.M) ([]*T, error) {
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		return nil, fmt.Errorf("sin conexión a la base de datos")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := col.Find(ctx, query)
	if err != nil {
		if connectionLost(err) {
			dm.dbInstance.MarkDisconnected()
		}
		return nil, err
	}
	defer func() { _ = cursor.Close(ctx) }()

	var results []*T
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		results = append(results, &doc)
	}

	return results, cursor.Err()
}

// Set upserts a document. Offline the write is buffered and (nil, nil) is
// returned so callers can keep serving their local copy.
func (dm *DataManager[T]) Set(query bson.M, data interface{}) (*T, error) {
	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		logger.Warn(fmt.Sprintf("DB offline. Encolando escritura para '%s'", dm.name), "DataManager")
		dm.dbInstance.EnqueueWrite(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Kind:           opSet,
			Data:           data,
		})
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	if err := col.FindOneAndUpdate(ctx, query, bson.M{"$set": data}, opts).Decode(&result); err != nil {
		logger.Error(fmt.Sprintf("Fallo al escribir '%s', encolando: %v", dm.name, err), "DataManager")
		dm.dbInstance.EnqueueWrite(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Kind:           opSet,
			Data:           data,
		})
		if connectionLost(err) {
			dm.dbInstance.MarkDisconnected()
		}
		return nil, err
	}

	sharedCache.put(dm.generateCacheKey(query), &result, dm.options.MaxCacheSize)
	return &result, nil
}

// Delete removes a document from the database and cache
func (dm *DataManager[T]) Delete(query bson.M) error {
	sharedCache.remove(dm.generateCacheKey(query))

	col := dm.col()
	if col == nil || !dm.dbInstance.Connected() {
		logger.Warn(fmt.Sprintf("DB offline. Encolando eliminación para '%s'", dm.name), "DataManager")
		dm.dbInstance.EnqueueWrite(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Kind:           opDelete,
		})
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := col.DeleteOne(ctx, query); err != nil {
		logger.Error(fmt.Sprintf("Fallo al eliminar en '%s', encolando: %v", dm.name, err), "DataManager")
		dm.dbInstance.EnqueueWrite(QueuedOperation{
			CollectionName: dm.name,
			Query:          query,
			Kind:           opDelete,
		})
		if connectionLost(err) {
			dm.dbInstance.MarkDisconnected()
		}
		return err
	}

	return nil
}
