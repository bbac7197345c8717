// Package database provides the MongoDB connection with offline buffering
// plus the cached data managers the rest of the bot reads policy and
// sanction state through.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/PancyGuardGo/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Kinds of buffered write operations.
const (
	opSet    = "set"
	opDelete = "delete"
)

// maxQueuedWrites bounds the offline buffer. During a long outage the oldest
// writes are dropped first; sanction state is reconstructible from Discord.
const maxQueuedWrites = 10000

// QueuedOperation is a write buffered while the database is unreachable
type QueuedOperation struct {
	CollectionName string
	Query          bson.M
	Kind           string
	Data           interface{}
}

// Database manages the MongoDB connection, the reconnect loop and the
// offline write buffer
type Database struct {
	client      *mongo.Client
	db          *mongo.Database
	IsConnected bool
	collections map[string]*mongo.Collection
	mongoURL    string
	dbName      string
	mu          sync.RWMutex

	writeQueue []QueuedOperation
	queueMu    sync.Mutex

	reconnectTicker *time.Ticker
	stopReconnect   chan struct{}
	stopOnce        sync.Once
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance. A failed first connection
// is not fatal: the bot keeps running on cached policies and buffered writes
// while the reconnect loop retries.
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance
func Get() *Database {
	return database
}

// NewDatabase creates a new Database instance
func NewDatabase() *Database {
	return &Database{
		collections:   make(map[string]*mongo.Collection),
		stopReconnect: make(chan struct{}),
	}
}

// Connect establishes the connection and flushes any buffered writes. On
// failure it leaves the reconnect loop running.
func (d *Database) Connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.IsConnected {
		return nil
	}
	d.mongoURL = mongoURL
	d.dbName = dbName

	logger.System("Intentando conectar a la base de datos...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err == nil {
		err = client.Ping(ctx, readpref.Primary())
	}
	if err != nil {
		logger.Critical("No se pudo conectar a la base de datos: "+err.Error(), "DB")
		d.startReconnectLoop()
		return err
	}

	d.client = client
	d.db = client.Database(dbName)
	d.IsConnected = true

	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}

	logger.Success("Conectado exitosamente a la base de datos.", "DB")

	go d.flushQueuedWrites()
	return nil
}

// startReconnectLoop retries the connection every 15 seconds until one
// attempt succeeds. Caller must hold mu. Idempotent: a running loop is
// never doubled.
func (d *Database) startReconnectLoop() {
	if d.reconnectTicker != nil {
		return
	}
	d.IsConnected = false
	d.reconnectTicker = time.NewTicker(15 * time.Second)
	ticker := d.reconnectTicker
	mongoURL, dbName := d.mongoURL, d.dbName

	go func() {
		for {
			select {
			case <-ticker.C:
				logger.Info("Reintentando conexión a la base de datos...", "DB")
				if err := d.Connect(mongoURL, dbName); err == nil {
					return
				}
			case <-d.stopReconnect:
				return
			}
		}
	}()
}

// MarkDisconnected flips the database into offline mode and starts the
// reconnect loop. Called when an operation detects a dead connection.
func (d *Database) MarkDisconnected() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.IsConnected {
		return
	}
	logger.Warn("Se perdió la conexión con la base de datos. Activando modo offline.", "DB")
	d.startReconnectLoop()
}

// Disconnect closes the connection and stops the reconnect loop
func (d *Database) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}
	d.stopOnce.Do(func() { close(d.stopReconnect) })

	if d.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.client.Disconnect(ctx); err != nil {
		return err
	}
	d.IsConnected = false
	logger.Warn("La base de datos ha sido desconectada", "DB")
	return nil
}

// Connected reports whether the database connection is alive
func (d *Database) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.IsConnected
}

// Ping measures the database response time
func (d *Database) Ping() (time.Duration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.IsConnected || d.client == nil {
		return 0, fmt.Errorf("sin conexión a la base de datos")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := d.client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns the connection status for the panel and ops surfaces
func (d *Database) GetStatus() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.client == nil {
		return "🔴 | Desconectado", false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return "🔴 | Desconectado", false
	}
	return "🟢 | En linea", true
}

// GetCollection returns a cached collection handle, or nil while offline.
// Handles are not cached while the database is down so the first call after
// a reconnect gets a live one.
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	if col, exists := d.collections[name]; exists {
		return col
	}

	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}

// EnqueueWrite buffers a write for when the connection comes back. The
// oldest writes are dropped once the buffer is full.
func (d *Database) EnqueueWrite(op QueuedOperation) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()

	if len(d.writeQueue) >= maxQueuedWrites {
		d.writeQueue = d.writeQueue[1:]
		logger.Warn("Búfer de escrituras lleno, descartando la más antigua", "DB-Sync")
	}
	d.writeQueue = append(d.writeQueue, op)
}

// QueuedWrites returns how many writes wait for the connection
func (d *Database) QueuedWrites() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.writeQueue)
}

// flushQueuedWrites replays the buffered writes after a reconnect. Writes
// that fail again go back to the buffer.
func (d *Database) flushQueuedWrites() {
	d.queueMu.Lock()
	if len(d.writeQueue) == 0 {
		d.queueMu.Unlock()
		return
	}
	pending := d.writeQueue
	d.writeQueue = nil
	d.queueMu.Unlock()

	logger.System(fmt.Sprintf("Sincronizando %d escrituras pendientes...", len(pending)), "DB-Sync")

	var failed []QueuedOperation
	for _, op := range pending {
		if err := d.applyQueued(op); err != nil {
			logger.Error(fmt.Sprintf("Escritura pendiente para '%s' falló: %v", op.CollectionName, err), "DB-Sync")
			failed = append(failed, op)
		}
	}

	if len(failed) > 0 {
		d.queueMu.Lock()
		d.writeQueue = append(d.writeQueue, failed...)
		d.queueMu.Unlock()
		logger.Warn(fmt.Sprintf("%d escrituras se reintentarán en la próxima reconexión.", len(failed)), "DB-Sync")
		return
	}
	logger.Success("Sincronización completada exitosamente.", "DB-Sync")
}

func (d *Database) applyQueued(op QueuedOperation) error {
	col := d.GetCollection(op.CollectionName)
	if col == nil {
		return fmt.Errorf("colección '%s' no disponible", op.CollectionName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch op.Kind {
	case opSet:
		_, err := col.UpdateOne(ctx, op.Query, bson.M{"$set": op.Data}, options.Update().SetUpsert(true))
		return err
	case opDelete:
		_, err := col.DeleteOne(ctx, op.Query)
		return err
	}
	return fmt.Errorf("operación desconocida '%s'", op.Kind)
}
