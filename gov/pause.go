package gov

import "osmobridge/chain"

var pausedKey = []byte("gov/paused")

// PauseInfo is the circuit-breaker state. Invariant: !Paused implies
// ExpiresAt == 0.
type PauseInfo struct {
	Paused    bool
	ExpiresAt uint64
}

// LoadPauseInfo reads the pause state, defaulting to unpaused when unset.
func LoadPauseInfo(store chain.Storage) (PauseInfo, error) {
	var info PauseInfo
	ok, err := store.KVGet(pausedKey, &info)
	if err != nil {
		return PauseInfo{}, err
	}
	if !ok {
		return PauseInfo{}, nil
	}
	return info, nil
}

// SavePauseInfo persists the pause state.
func SavePauseInfo(store chain.Storage, info PauseInfo) error {
	return store.KVPut(pausedKey, info)
}

// Refresh lazily clears an expired pause: if paused and expires_at has
// passed, the default (unpaused) state is persisted and returned. Idempotent
// on every other input. Every state-mutating entry point must load, refresh
// and then assert.
func (p PauseInfo) Refresh(store chain.Storage, now uint64) (PauseInfo, error) {
	if p.Paused && p.ExpiresAt != 0 && p.ExpiresAt <= now {
		cleared := PauseInfo{}
		if err := SavePauseInfo(store, cleared); err != nil {
			return PauseInfo{}, err
		}
		return cleared, nil
	}
	return p, nil
}

// AssertNotPaused fails with ErrPaused while the breaker is engaged.
func (p PauseInfo) AssertNotPaused() (PauseInfo, error) {
	if p.Paused {
		return p, ErrPaused
	}
	return p, nil
}

// AssertPaused fails with ErrNotPaused when the breaker is not engaged.
func (p PauseInfo) AssertPaused() (PauseInfo, error) {
	if !p.Paused {
		return p, ErrNotPaused
	}
	return p, nil
}

// EnsureNotPaused runs the canonical load → refresh → assert sequence used
// at the top of every state-mutating entry point.
func EnsureNotPaused(store chain.Storage, now uint64) error {
	info, err := LoadPauseInfo(store)
	if err != nil {
		return err
	}
	info, err = info.Refresh(store, now)
	if err != nil {
		return err
	}
	_, err = info.AssertNotPaused()
	return err
}

// EnsurePaused is the load → refresh → assert sequence used by Release.
func EnsurePaused(store chain.Storage, now uint64) error {
	info, err := LoadPauseInfo(store)
	if err != nil {
		return err
	}
	info, err = info.Refresh(store, now)
	if err != nil {
		return err
	}
	_, err = info.AssertPaused()
	return err
}
