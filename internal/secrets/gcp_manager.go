package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretmanagerpb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// cacheEntry represents a cached secret with expiration
type cacheEntry struct {
	value     string
	expiresAt time.Time
}

// Manager reads plain string secrets from Google Cloud Secret Manager. The
// feed service only needs one: the database password.
type Manager struct {
	client    *secretmanager.Client
	projectID string
	cache     map[string]*cacheEntry
	cacheMu   sync.RWMutex
	cacheTTL  time.Duration
}

// NewManager creates a new Secret Manager client
func NewManager(ctx context.Context, projectID string) (*Manager, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create secret manager client: %w", err)
	}

	return &Manager{
		client:    client,
		projectID: projectID,
		cache:     make(map[string]*cacheEntry),
		cacheTTL:  5 * time.Minute,
	}, nil
}

// Close closes the Secret Manager client
func (m *Manager) Close() error {
	if m.client != nil {
		return m.client.Close()
	}
	return nil
}

// GetString retrieves the latest version of a secret as a string.
func (m *Manager) GetString(ctx context.Context, secretID string) (string, error) {
	name := fmt.Sprintf("projects/%s/secrets/%s", m.projectID, secretID)

	m.cacheMu.RLock()
	if entry, ok := m.cache[name]; ok && time.Now().Before(entry.expiresAt) {
		m.cacheMu.RUnlock()
		return entry.value, nil
	}
	m.cacheMu.RUnlock()

	result, err := m.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: name + "/versions/latest",
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", secretID, err)
	}
	value := string(result.Payload.Data)

	m.cacheMu.Lock()
	m.cache[name] = &cacheEntry{value: value, expiresAt: time.Now().Add(m.cacheTTL)}
	m.cacheMu.Unlock()

	return value, nil
}

// InvalidateCache removes all cached secrets
func (m *Manager) InvalidateCache() {
	m.cacheMu.Lock()
	m.cache = make(map[string]*cacheEntry)
	m.cacheMu.Unlock()
}
