package service

import (
	"draw-poker/internal/config"
	"draw-poker/internal/service/history"
	"draw-poker/internal/service/lobby"
	"draw-poker/internal/service/session"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Session  *session.Service
	Registry *session.Registry
	History  *history.Service
	Lobby    *lobby.Service
}

func NewContainer(db *gorm.DB, rdb *redis.Client, cfg *config.Config) (*Container, error) {
	sessions, err := session.NewService(session.NewRedisNameStore(rdb), cfg.Session)
	if err != nil {
		return nil, err
	}
	registry := session.NewRegistry(cfg.Session.ReconnectGrace)
	hist := history.NewService(db)

	return &Container{
		Session:  sessions,
		Registry: registry,
		History:  hist,
		Lobby:    lobby.NewService(cfg.Table, sessions, registry, hist),
	}, nil
}

// Close stops pending reconnect timers.
func (c *Container) Close() {
	c.Registry.Close()
}
