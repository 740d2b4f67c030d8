package toolsmanager

import (
	"context"
)

// sessionContext implements the SessionContext interface
type sessionContext struct {
	ctx    context.Context
	config SessionContextConfig
}

// SessionContextConfig holds configuration for creating a SessionContext
type SessionContextConfig struct {
	Project     string
	Credentials map[string]string
	ContactInfo map[string]string
}

// NewSessionContext creates a new SessionContext instance
func NewSessionContext(ctx context.Context, config SessionContextConfig) SessionContext {
	if config.Credentials == nil {
		config.Credentials = map[string]string{}
	}
	if config.ContactInfo == nil {
		config.ContactInfo = map[string]string{}
	}
	return &sessionContext{
		ctx:    ctx,
		config: config,
	}
}

func (s *sessionContext) Context() context.Context {
	return s.ctx
}

func (s *sessionContext) Credential(name string) string {
	return s.config.Credentials[name]
}

func (s *sessionContext) Contact(name string) string {
	return s.config.ContactInfo[name]
}

func (s *sessionContext) Credentials() map[string]string {
	return s.config.Credentials
}

func (s *sessionContext) ContactInfo() map[string]string {
	return s.config.ContactInfo
}

func (s *sessionContext) Project() string {
	return s.config.Project
}
