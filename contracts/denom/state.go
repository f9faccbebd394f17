package denom

import "osmobridge/chain"

var aliasPrefix = []byte("denoms/")

func aliasKey(token string) []byte {
	return append(append([]byte(nil), aliasPrefix...), token...)
}

func addAlias(store chain.Storage, token, alias string) error {
	return store.KVPut(aliasKey(token), alias)
}

func convert(store chain.Storage, token string) (string, error) {
	var alias string
	ok, err := store.KVGet(aliasKey(token), &alias)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", &DenomNotFoundError{Denom: token}
	}
	return alias, nil
}
