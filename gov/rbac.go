// Package gov is the governance and RBAC substrate embedded by every bridge
// contract: a single owner, named role grants and a time-limited pause whose
// expiry self-heals on first touch.
package gov

import (
	"errors"
	"fmt"

	"osmobridge/chain"
)

// RoleGateway authorizes a contract to move liquidity-manager balances on
// behalf of other accounts. Role names are opaque strings; the schema is
// extensible.
const RoleGateway = "gateway_role"

var (
	ownerKey   = []byte("gov/owner")
	rolePrefix = []byte("gov/roles/")
)

func roleKey(role, addr string) []byte {
	buf := make([]byte, 0, len(rolePrefix)+len(role)+1+len(addr))
	buf = append(buf, rolePrefix...)
	buf = append(buf, role...)
	buf = append(buf, '/')
	buf = append(buf, addr...)
	return buf
}

// Owner loads the contract owner.
func Owner(store chain.Storage) (string, error) {
	var owner string
	ok, err := store.KVGet(ownerKey, &owner)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("gov: owner not initialised")
	}
	return owner, nil
}

// SetOwner overwrites the contract owner.
func SetOwner(store chain.Storage, owner string) error {
	return store.KVPut(ownerKey, owner)
}

// AssertOwner fails with ErrUnauthorized unless sender is the owner.
func AssertOwner(store chain.Storage, sender string) error {
	owner, err := Owner(store)
	if err != nil {
		return err
	}
	if owner != sender {
		return ErrUnauthorized
	}
	return nil
}

// GrantRole records a role for addr, overwriting any previous grant.
func GrantRole(store chain.Storage, role, addr string) error {
	return store.KVPut(roleKey(role, addr), true)
}

// RevokeRole removes a grant; revoking an ungranted pair fails with
// RoleNotExistError.
func RevokeRole(store chain.Storage, role, addr string) error {
	if err := AssertRole(store, role, addr); err != nil {
		return err
	}
	return store.KVDelete(roleKey(role, addr))
}

// HasRole reports whether addr holds role.
func HasRole(store chain.Storage, role, addr string) (bool, error) {
	var granted bool
	ok, err := store.KVGet(roleKey(role, addr), &granted)
	if err != nil {
		return false, err
	}
	return ok && granted, nil
}

// AssertRole fails with RoleNotExistError unless addr holds role.
func AssertRole(store chain.Storage, role, addr string) error {
	granted, err := HasRole(store, role, addr)
	if err != nil {
		return err
	}
	if !granted {
		return &RoleNotExistError{Addr: addr, Role: role}
	}
	return nil
}

// AssertOwnerOrRole passes when sender is the owner or holds role.
func AssertOwnerOrRole(store chain.Storage, role, sender string) error {
	if err := AssertOwner(store, sender); err == nil {
		return nil
	} else if !errors.Is(err, ErrUnauthorized) {
		return err
	}
	granted, err := HasRole(store, role, sender)
	if err != nil {
		return err
	}
	if !granted {
		return fmt.Errorf("%w: %s is neither owner nor %s", ErrUnauthorized, sender, role)
	}
	return nil
}
