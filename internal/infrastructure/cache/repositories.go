package cache

import (
	"context"
	"time"

	"github.com/janhq/commerce-api/internal/domain/agent"
	"github.com/janhq/commerce-api/internal/domain/commerce"
)

// Agents caches agent lookups. Misses and errors are not cached.
type Agents struct {
	next  agent.Repository
	cache *TTL[agent.Agent]
}

// NewAgents wraps next with a cache of size entries living ttl.
func NewAgents(next agent.Repository, size int, ttl time.Duration) (*Agents, error) {
	c, err := NewTTL[agent.Agent](size, ttl)
	if err != nil {
		return nil, err
	}
	return &Agents{next: next, cache: c}, nil
}

// FindByID implements agent.Repository.
func (a *Agents) FindByID(ctx context.Context, tenantID, id string) (*agent.Agent, error) {
	key := tenantID + "/" + id
	if cached, ok := a.cache.Get(key); ok {
		return &cached, nil
	}
	found, err := a.next.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	a.cache.Add(key, *found)
	return found, nil
}

// Store caches organization profiles in front of a commerce store.
type Store struct {
	commerce.Store
	orgs *TTL[commerce.Organization]
}

// NewStore wraps next with an organization cache.
func NewStore(next commerce.Store, size int, ttl time.Duration) (*Store, error) {
	c, err := NewTTL[commerce.Organization](size, ttl)
	if err != nil {
		return nil, err
	}
	return &Store{Store: next, orgs: c}, nil
}

// GetOrganization implements commerce.OrganizationRepository.
func (s *Store) GetOrganization(ctx context.Context, tenantID string) (*commerce.Organization, error) {
	if cached, ok := s.orgs.Get(tenantID); ok {
		return &cached, nil
	}
	org, err := s.Store.GetOrganization(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	s.orgs.Add(tenantID, *org)
	return org, nil
}

var (
	_ agent.Repository = (*Agents)(nil)
	_ commerce.Store   = (*Store)(nil)
)
