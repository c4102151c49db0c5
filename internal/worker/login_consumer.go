package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/edvora/edvora-api/internal/auth/service"
	"github.com/redis/go-redis/v9"
)

// LoginLogWorker drains the login-event stream and materializes last-login
// timestamps and audit rows, keeping that work off the request path.
type LoginLogWorker struct {
	redisClient *redis.Client
	authService *service.AuthService
}

func NewLoginLogWorker(redisClient *redis.Client, authService *service.AuthService) *LoginLogWorker {
	return &LoginLogWorker{
		redisClient: redisClient,
		authService: authService,
	}
}

func (w *LoginLogWorker) Start(ctx context.Context) {
	lastID := "0"

	for {
		select {
		case <-ctx.Done():
			log.Println("LoginLogWorker shutting down.")
			return
		default:
			streams, err := w.redisClient.XRead(ctx, &redis.XReadArgs{
				Streams: []string{service.LoginStreamKey, lastID},
				Block:   5 * time.Second,
			}).Result()
			if err != nil {
				if err != redis.Nil {
					log.Printf("Error reading from stream: %v", err)
					time.Sleep(time.Second)
				}
				continue
			}

			for _, stream := range streams {
				for _, msg := range stream.Messages {
					eventString, ok := msg.Values["event"].(string)
					if !ok {
						lastID = msg.ID
						continue
					}

					var loginEvent service.LoginEvent
					if err := json.Unmarshal([]byte(eventString), &loginEvent); err != nil {
						log.Printf("Failed to unmarshal event: %v", err)
						lastID = msg.ID
						continue
					}
					if loginEvent.EventType == "user_last_login" {
						if err := w.authService.RecordLogin(ctx, loginEvent); err != nil {
							log.Printf("Failed to record login for user %v: %v", loginEvent.UserID, err)
						}
					}
					lastID = msg.ID
				}
			}
		}
	}
}
