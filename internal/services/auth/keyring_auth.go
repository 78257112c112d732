package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetCredentials(account string, credentialsJSON string) error {
	accountKey := NormalizeAccount(account)
	return keyring.Set(k.serviceName, accountKey, credentialsJSON)
}

func (k *KeyringStore) GetCredentials(account string) (string, error) {
	accountKey := NormalizeAccount(account)
	credentials, err := keyring.Get(k.serviceName, accountKey)
	if err == nil {
		return credentials, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrCredentialsNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteCredentials(account string) error {
	accountKey := NormalizeAccount(account)
	err := keyring.Delete(k.serviceName, accountKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrCredentialsNotFound
	}
	return err
}
