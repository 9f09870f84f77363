package store

import "errors"

var (
	ErrStoreNotFound = errors.New("store not found")
)

// StoreProvider resolves the store serving a given user. The default
// deployment is single-database, but tests and future sharding swap in a
// per-user mapping.
type StoreProvider interface {
	Provide(userID string) (Store, error)
}

// UserStoreProvider maps user ids to dedicated stores.
type UserStoreProvider struct {
	stores map[string]Store
}

func NewUserStoreProvider() *UserStoreProvider {
	return &UserStoreProvider{
		stores: make(map[string]Store),
	}
}

func (p *UserStoreProvider) Register(userID string, store Store) {
	p.stores[userID] = store
}

func (p *UserStoreProvider) Provide(userID string) (Store, error) {
	if store, ok := p.stores[userID]; ok {
		return store, nil
	}

	return nil, ErrStoreNotFound
}

// DefaultProvider serves every user from the same store.
type DefaultProvider struct {
	store Store
}

func NewDefaultProvider(store Store) *DefaultProvider {
	return &DefaultProvider{store: store}
}

func (p *DefaultProvider) Provide(userID string) (Store, error) {
	return p.store, nil
}
