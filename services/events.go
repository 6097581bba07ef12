package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Publisher fans collection-change events out to the user's sync channel.
// Connected clients (other tabs, other devices) refresh their state when
// an event arrives. A nil redis client makes publishing a no-op.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func SyncChannel(userID uuid.UUID) string {
	return "ws:user:" + userID.String()
}

// Publish sends a {type, action, id} event for a collection mutation.
func (p *Publisher) Publish(userID uuid.UUID, collection, action, id string) {
	if p.rdb == nil {
		return
	}

	event := map[string]string{
		"type":   collection + "_changed",
		"action": action,
		"id":     id,
	}
	data, _ := json.Marshal(event)
	p.rdb.Publish(context.Background(), SyncChannel(userID), string(data))
}
