package services

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// StatusChannel is the pub/sub channel carrying status events for a session.
func StatusChannel(sessionID string) string { return "interview:" + sessionID + ":status" }

type StatusEvent struct {
	Type         string `json:"type"`
	SessionID    string `json:"session_id"`
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	Attempt      int    `json:"attempt,omitempty"`
	OverallScore int    `json:"overall_score,omitempty"`
}

type StatusPublisher interface {
	Publish(ctx context.Context, ev StatusEvent) error
}

type RedisStatusPublisher struct {
	rdb *redis.Client
}

func NewRedisStatusPublisher(rdb *redis.Client) *RedisStatusPublisher {
	return &RedisStatusPublisher{rdb: rdb}
}

func (p *RedisStatusPublisher) Publish(ctx context.Context, ev StatusEvent) error {
	if ev.Type == "" {
		ev.Type = "status"
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, StatusChannel(ev.SessionID), b).Err()
}
