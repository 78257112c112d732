package auth

// MockStore is an in-memory credential store for testing.
type MockStore struct {
	credentials map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{credentials: make(map[string]string)}
}

func (m *MockStore) SetCredentials(account string, credentialsJSON string) error {
	m.credentials[account] = credentialsJSON
	return nil
}

func (m *MockStore) GetCredentials(account string) (string, error) {
	credentials, ok := m.credentials[account]
	if !ok {
		return "", ErrCredentialsNotFound
	}
	return credentials, nil
}

func (m *MockStore) DeleteCredentials(account string) error {
	if _, ok := m.credentials[account]; !ok {
		return ErrCredentialsNotFound
	}
	delete(m.credentials, account)
	return nil
}
