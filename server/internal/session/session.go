// Package session issues and revokes the JWT session tokens of everest-server.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"

	"github.com/everest-platform/console/pkg/accounts"
	"github.com/everest-platform/console/pkg/token"
)

const (
	// Issuer is the iss claim of every session token.
	Issuer = "everest"
	// DefaultExpiry is the lifetime of a session token.
	DefaultExpiry = 24 * time.Hour

	signingKeySecretNamespace = "everest-system"
	signingKeySecretName      = "everest-jwt"
	signingKeySecretKey       = "signing_key"

	subjectTemplate = "%s:%s" // username:capability
)

var (
	// ErrTokenBlocked is returned for a revoked token.
	ErrTokenBlocked = errors.New("session token has been revoked")
	// ErrInvalidSubject is returned for a token whose subject is not username:capability.
	ErrInvalidSubject = errors.New("invalid session subject")
)

// SecretClient reads and creates the signing key Secret.
type SecretClient interface {
	SecretGetter
	CreateSecret(ctx context.Context, s *corev1.Secret) error
}

// Store is the revocation store. *Blocklist implements it.
type Store interface {
	Add(ctx context.Context, jti string, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// Manager authenticates users and issues, validates and revokes tokens.
type Manager struct {
	accounts accounts.Interface
	store    Store
	l        *zap.Logger

	key []byte
	now func() time.Time
}

// NewManager returns a manager signing with key.
func NewManager(key []byte, acc accounts.Interface, store Store, l *zap.Logger) (*Manager, error) {
	if err := token.ValidateSigningKey(key); err != nil {
		return nil, err
	}
	return &Manager{
		accounts: acc,
		store:    store,
		l:        l.With(zap.String("component", "session")),
		key:      key,
		now:      time.Now,
	}, nil
}

// SecretGetter reads the signing key Secret.
type SecretGetter interface {
	GetSecret(ctx context.Context, namespace, name string) (*corev1.Secret, error)
}

// ReadSigningKey returns the key stored in the everest-jwt Secret.
func ReadSigningKey(ctx context.Context, c SecretGetter) ([]byte, error) {
	s, err := c.GetSecret(ctx, signingKeySecretNamespace, signingKeySecretName)
	if err != nil {
		return nil, err
	}
	key := s.Data[signingKeySecretKey]
	if err := token.ValidateSigningKey(key); err != nil {
		return nil, fmt.Errorf("secret %s/%s: %w", signingKeySecretNamespace, signingKeySecretName, err)
	}
	return key, nil
}

// LoadSigningKey returns the key stored in the everest-jwt Secret, creating
// the Secret with a fresh key when it does not exist.
func LoadSigningKey(ctx context.Context, c SecretClient) ([]byte, error) {
	key, err := ReadSigningKey(ctx, c)
	if err == nil {
		return key, nil
	}
	if !k8serrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}

	key, err = token.GenerateSigningKey()
	if err != nil {
		return nil, err
	}
	s := &corev1.Secret{Data: map[string][]byte{signingKeySecretKey: key}}
	s.SetNamespace(signingKeySecretNamespace)
	s.SetName(signingKeySecretName)
	if err := c.CreateSecret(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to store signing key: %w", err)
	}
	return key, nil
}

// Authenticate verifies a username and password.
func (m *Manager) Authenticate(ctx context.Context, username, password string) error {
	return m.accounts.Verify(ctx, username, password)
}

// Create issues a session token for username.
func (m *Manager) Create(username string) (string, error) {
	jti, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	now := m.now()
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   fmt.Sprintf(subjectTemplate, username, accounts.AccountCapabilityLogin),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(DefaultExpiry)),
		ID:        jti.String(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
}

// Parse validates the signature and the time claims of raw.
// It does not consult the blocklist; see Validate.
func (m *Manager) Parse(raw string) (*jwt.Token, *jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, nil, err
	}
	return t, claims, nil
}

// Validate parses raw and rejects it when it has been revoked.
// It returns the user name the token was issued to.
func (m *Manager) Validate(ctx context.Context, raw string) (string, *jwt.RegisteredClaims, error) {
	_, claims, err := m.Parse(raw)
	if err != nil {
		return "", nil, err
	}
	blocked, err := m.store.Contains(ctx, claims.ID)
	if err != nil {
		return "", nil, err
	}
	if blocked {
		m.l.Debug("rejected revoked session",
			zap.String("token", m.Fingerprint(raw)),
			zap.String("subject", claims.Subject),
		)
		return "", nil, ErrTokenBlocked
	}
	user, err := Username(claims.Subject)
	if err != nil {
		return "", nil, err
	}
	return user, claims, nil
}

// Fingerprint identifies raw in logs without exposing it.
func (m *Manager) Fingerprint(raw string) string {
	return token.Fingerprint(raw, m.key)
}

// Block revokes the token described by claims until it expires.
func (m *Manager) Block(ctx context.Context, claims *jwt.RegisteredClaims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return errors.New("token has no id or expiry")
	}
	if err := m.store.Add(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	m.l.Info("session revoked", zap.String("jti", claims.ID), zap.String("subject", claims.Subject))
	return nil
}

// Username extracts the user name from a subject of the form username:capability.
func Username(subject string) (string, error) {
	user, ok := strings.CutSuffix(subject, ":"+string(accounts.AccountCapabilityLogin))
	if !ok || user == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidSubject, subject)
	}
	return user, nil
}
