package accounts

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

type memSecrets struct {
	secret *corev1.Secret
}

func (m *memSecrets) GetSecret(_ context.Context, _, name string) (*corev1.Secret, error) {
	if m.secret == nil {
		return nil, k8serrors.NewNotFound(schema.GroupResource{Resource: "secrets"}, name)
	}
	return m.secret.DeepCopy(), nil
}

func (m *memSecrets) CreateSecret(_ context.Context, s *corev1.Secret) error {
	m.secret = s.DeepCopy()
	return nil
}

func (m *memSecrets) UpdateSecret(_ context.Context, s *corev1.Secret) error {
	m.secret = s.DeepCopy()
	return nil
}

func TestVerifyAccountState(t *testing.T) {
	put := func(m *memSecrets, user string, acc Account) {
		raw, err := json.Marshal(acc)
		require.NoError(t, err)
		if m.secret == nil {
			m.secret = &corev1.Secret{Data: map[string][]byte{}}
		}
		m.secret.Data[user] = raw
	}

	tests := []struct {
		name    string
		account Account
		pass    string
		wantErr error
	}{
		{
			name:    "disabled",
			account: Account{PasswordHash: "pw", Capabilities: []AccountCapability{AccountCapabilityLogin}},
			pass:    "pw",
			wantErr: ErrAccountDisabled,
		},
		{
			name:    "no login capability",
			account: Account{PasswordHash: "pw", Enabled: true, Capabilities: []AccountCapability{AccountCapabilityAPIKey}},
			pass:    "pw",
			wantErr: ErrInsufficientCapabilities,
		},
		{
			name:    "plain text password",
			account: Account{PasswordHash: "pw", Enabled: true, Capabilities: []AccountCapability{AccountCapabilityLogin}},
			pass:    "pw",
		},
		{
			name:    "plain text mismatch",
			account: Account{PasswordHash: "pw", Enabled: true, Capabilities: []AccountCapability{AccountCapabilityLogin}},
			pass:    "PW",
			wantErr: ErrIncorrectPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &memSecrets{}
			put(m, "user", tt.account)
			err := NewSecretStore(m).Verify(context.Background(), "user", tt.pass)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSecretStoreCreatesMissingSecret(t *testing.T) {
	m := &memSecrets{}
	s := NewSecretStore(m)

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
	require.NotNil(t, m.secret)
	assert.Equal(t, accountsSecretName, m.secret.GetName())
	assert.Equal(t, accountsSecretNamespace, m.secret.GetNamespace())
}
