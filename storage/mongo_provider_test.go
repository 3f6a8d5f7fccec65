package storage

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Needs a running MongoDB; skipped otherwise.
func TestMongoProviderContract(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017/?serverSelectionTimeoutMS=2000"
	}

	p := &MongoProvider{}
	if err := p.Connect(uri, "photo_triage_test", "kv_test"); err != nil {
		t.Skipf("mongodb not available: %v", err)
	}
	defer p.Close()

	key := fmt.Sprintf("photos-%d", time.Now().UnixNano())
	defer p.collection.DeleteOne(context.Background(), bson.D{{Key: "_id", Value: key}})

	providerContract(t, p, key)
}
