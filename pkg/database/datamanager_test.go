package database

import (
	"testing"

	"github.com/PancyStudios/PancyGuardGo/pkg/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestLRUCacheEvictsColdest(t *testing.T) {
	c := newLRUCache()
	c.put("a", 1, 2)
	c.put("b", 2, 2)

	// Tocar "a" la vuelve la entrada más caliente.
	if _, ok := c.get("a"); !ok {
		t.Fatal("'a' debería seguir en caché")
	}

	c.put("c", 3, 2)
	if _, ok := c.get("b"); ok {
		t.Fatal("'b' debería haber sido expulsada")
	}
	if _, ok := c.get("a"); !ok {
		t.Fatal("'a' debería sobrevivir por ser reciente")
	}
	if c.len() != 2 {
		t.Fatalf("len = %d, se esperaban 2", c.len())
	}
}

func TestLRUCacheUpdateExisting(t *testing.T) {
	c := newLRUCache()
	c.put("k", 1, 10)
	c.put("k", 2, 10)

	v, ok := c.get("k")
	if !ok || v.(int) != 2 {
		t.Fatalf("get = (%v, %v), se esperaba el valor actualizado 2", v, ok)
	}
	if c.len() != 1 {
		t.Fatalf("len = %d, se esperaba 1", c.len())
	}
}

func TestGenerateCacheKeyDeterministic(t *testing.T) {
	db := NewDatabase()
	dm := NewDataManager[models.GuildConfig]("guild_configs", db)

	q1 := bson.M{"guild_id": "g1", "user_id": "u1"}
	q2 := bson.M{"user_id": "u1", "guild_id": "g1"}
	if dm.generateCacheKey(q1) != dm.generateCacheKey(q2) {
		t.Fatal("la clave de caché debe ser independiente del orden del mapa")
	}
}

func TestOfflineWritesQueue(t *testing.T) {
	db := NewDatabase()
	dm := NewDataManager[models.GuildConfig]("offline_test_configs", db)

	result, err := dm.Set(bson.M{"_id": "g1"}, models.DefaultGuildConfig("g1"))
	if err != nil || result != nil {
		t.Fatalf("Set sin conexión = (%v, %v), se esperaba (nil, nil)", result, err)
	}
	if got := db.QueuedWrites(); got != 1 {
		t.Fatalf("QueuedWrites = %d, se esperaba 1", got)
	}

	if err := dm.Delete(bson.M{"_id": "g1"}); err != nil {
		t.Fatalf("Delete sin conexión devolvió error: %v", err)
	}
	if got := db.QueuedWrites(); got != 2 {
		t.Fatalf("QueuedWrites = %d, se esperaban 2", got)
	}

	if _, err := dm.Get(bson.M{"_id": "g1"}); err == nil {
		t.Fatal("Get sin conexión debe devolver error")
	}
}
