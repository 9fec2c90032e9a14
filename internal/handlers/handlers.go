package handlers

import (
	"github.com/antisocial-hq/antisocial/internal/auth"
	"github.com/antisocial-hq/antisocial/internal/feed"
	"github.com/antisocial-hq/antisocial/internal/social"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	auth   *auth.Service
	feed   *feed.Service
	social *social.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(authService *auth.Service, feedService *feed.Service, socialService *social.Service) *Handlers {
	return &Handlers{
		auth:   authService,
		feed:   feedService,
		social: socialService,
	}
}
