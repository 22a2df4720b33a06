package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
)

const (
	accountsSecretName      = "everest-accounts"
	accountsSecretNamespace = "everest-system"
	adminUser               = "admin"
)

// ErrInitialPasswordChanged is returned when the admin password is already hashed.
var ErrInitialPasswordChanged = errors.New("the initial admin password has been changed")

// SecretClient is the subset of the Kubernetes client the store needs.
type SecretClient interface {
	GetSecret(ctx context.Context, namespace, name string) (*corev1.Secret, error)
	CreateSecret(ctx context.Context, s *corev1.Secret) error
	UpdateSecret(ctx context.Context, s *corev1.Secret) error
}

// SecretStore keeps accounts in a Secret. Every data key is a user name and
// its value is the JSON encoded Account.
type SecretStore struct {
	c SecretClient
}

var _ Interface = (*SecretStore)(nil)

// NewSecretStore returns a store backed by the accounts Secret.
func NewSecretStore(c SecretClient) *SecretStore {
	return &SecretStore{c: c}
}

func (s *SecretStore) load(ctx context.Context) (*corev1.Secret, error) {
	secret, err := s.c.GetSecret(ctx, accountsSecretNamespace, accountsSecretName)
	if k8serrors.IsNotFound(err) {
		secret = &corev1.Secret{}
		secret.SetName(accountsSecretName)
		secret.SetNamespace(accountsSecretNamespace)
		if err := s.c.CreateSecret(ctx, secret); err != nil {
			return nil, fmt.Errorf("failed to create accounts secret: %w", err)
		}
		return secret, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts secret: %w", err)
	}
	return secret, nil
}

func (s *SecretStore) save(ctx context.Context, secret *corev1.Secret, username string, acc *Account) error {
	data, err := json.Marshal(acc)
	if err != nil {
		return err
	}
	if secret.Data == nil {
		secret.Data = map[string][]byte{}
	}
	secret.Data[username] = data
	return s.c.UpdateSecret(ctx, secret)
}

func decode(raw []byte) (*Account, error) {
	acc := &Account{}
	if err := json.Unmarshal(raw, acc); err != nil {
		return nil, fmt.Errorf("failed to decode account: %w", err)
	}
	return acc, nil
}

func hash(password string, secure bool) (string, error) {
	if !secure {
		return password, nil
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}

// Create implements Interface.
func (s *SecretStore) Create(ctx context.Context, username, password string) error {
	if username == "" {
		return ErrEmptyUsername
	}
	if password == "" {
		return ErrEmptyPassword
	}
	secret, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := secret.Data[username]; ok {
		return ErrAccountAlreadyExists
	}
	h, err := hash(password, true)
	if err != nil {
		return err
	}
	return s.save(ctx, secret, username, &Account{
		PasswordHash: h,
		Secure:       true,
		Enabled:      true,
		Capabilities: []AccountCapability{AccountCapabilityLogin},
	})
}

// Get implements Interface.
func (s *SecretStore) Get(ctx context.Context, username string) (*Account, error) {
	secret, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	raw, ok := secret.Data[username]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return decode(raw)
}

// List implements Interface.
func (s *SecretStore) List(ctx context.Context) (map[string]*Account, error) {
	secret, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	result := make(map[string]*Account, len(secret.Data))
	for user, raw := range secret.Data {
		acc, err := decode(raw)
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", user, err)
		}
		result[user] = acc
	}
	return result, nil
}

// Delete implements Interface.
func (s *SecretStore) Delete(ctx context.Context, username string) error {
	secret, err := s.load(ctx)
	if err != nil {
		return err
	}
	if _, ok := secret.Data[username]; !ok {
		return ErrAccountNotFound
	}
	delete(secret.Data, username)
	return s.c.UpdateSecret(ctx, secret)
}

// SetPassword implements Interface.
func (s *SecretStore) SetPassword(ctx context.Context, username, password string, secure bool) error {
	if password == "" {
		return ErrEmptyPassword
	}
	secret, err := s.load(ctx)
	if err != nil {
		return err
	}
	raw, ok := secret.Data[username]
	if !ok {
		return ErrAccountNotFound
	}
	acc, err := decode(raw)
	if err != nil {
		return err
	}
	if acc.PasswordHash, err = hash(password, secure); err != nil {
		return err
	}
	acc.Secure = secure
	return s.save(ctx, secret, username, acc)
}

// Verify implements Interface.
func (s *SecretStore) Verify(ctx context.Context, username, password string) error {
	acc, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	if !acc.Enabled {
		return ErrAccountDisabled
	}
	if !acc.HasCapability(AccountCapabilityLogin) {
		return ErrInsufficientCapabilities
	}
	if !acc.Secure {
		if acc.PasswordHash != password {
			return ErrIncorrectPassword
		}
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return ErrIncorrectPassword
	}
	return nil
}

// GetInitialAdminPassword implements Interface.
func (s *SecretStore) GetInitialAdminPassword(ctx context.Context) (string, error) {
	acc, err := s.Get(ctx, adminUser)
	if err != nil {
		return "", err
	}
	if acc.Secure {
		return "", ErrInitialPasswordChanged
	}
	return acc.PasswordHash, nil
}
