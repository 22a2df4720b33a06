package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	corev1 "k8s.io/api/core/v1"
	k8serrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/everest-platform/console/pkg/accounts"
	"github.com/everest-platform/console/pkg/token"
)

type memSecrets map[string]*corev1.Secret

func (m memSecrets) GetSecret(_ context.Context, ns, name string) (*corev1.Secret, error) {
	s, ok := m[ns+"/"+name]
	if !ok {
		return nil, k8serrors.NewNotFound(schema.GroupResource{Resource: "secrets"}, name)
	}
	return s.DeepCopy(), nil
}

func (m memSecrets) CreateSecret(_ context.Context, s *corev1.Secret) error {
	m[s.GetNamespace()+"/"+s.GetName()] = s.DeepCopy()
	return nil
}

func (m memSecrets) UpdateSecret(_ context.Context, s *corev1.Secret) error {
	m[s.GetNamespace()+"/"+s.GetName()] = s.DeepCopy()
	return nil
}

func newBlocklist(t *testing.T) *Blocklist {
	t.Helper()
	b, err := OpenBlocklist(context.Background(), filepath.Join(t.TempDir(), "blocklist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func newManager(t *testing.T) (*Manager, accounts.Interface) {
	t.Helper()
	secrets := memSecrets{}
	key, err := LoadSigningKey(context.Background(), secrets)
	require.NoError(t, err)

	acc := accounts.NewSecretStore(secrets)
	require.NoError(t, acc.Create(context.Background(), "alice", "s3cret"))

	m, err := NewManager(key, acc, newBlocklist(t), zap.NewNop())
	require.NoError(t, err)
	return m, acc
}

func TestBlocklist(t *testing.T) {
	ctx := context.Background()
	b := newBlocklist(t)
	now := time.Now()

	require.NoError(t, b.Add(ctx, "live", now.Add(time.Hour)))
	require.NoError(t, b.Add(ctx, "expired", now.Add(-time.Hour)))
	require.NoError(t, b.Add(ctx, "live", now.Add(-time.Hour)))

	ok, err := b.Contains(ctx, "live")
	require.NoError(t, err)
	assert.True(t, ok, "re-adding must keep the later expiry")

	ok, err = b.Contains(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := b.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pruned, err := b.Prune(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	n, err = b.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLoadSigningKeyIsStable(t *testing.T) {
	secrets := memSecrets{}
	first, err := LoadSigningKey(context.Background(), secrets)
	require.NoError(t, err)
	second, err := LoadSigningKey(context.Background(), secrets)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	secrets[signingKeySecretNamespace+"/"+signingKeySecretName].Data[signingKeySecretKey] = []byte("short")
	_, err = LoadSigningKey(context.Background(), secrets)
	assert.Error(t, err)
}

func TestCreateAndValidate(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	require.NoError(t, m.Authenticate(ctx, "alice", "s3cret"))
	assert.ErrorIs(t, m.Authenticate(ctx, "alice", "nope"), accounts.ErrIncorrectPassword)

	raw, err := m.Create("alice")
	require.NoError(t, err)

	user, claims, err := m.Validate(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "alice:login", claims.Subject)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(DefaultExpiry), claims.ExpiresAt.Time, time.Minute)

	require.NoError(t, m.Block(ctx, claims))
	_, _, err = m.Validate(ctx, raw)
	assert.ErrorIs(t, err, ErrTokenBlocked)
}

func TestRevokedSessionLogsFingerprint(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zapcore.DebugLevel)
	key := []byte("0123456789abcdef0123456789abcdef")
	m, err := NewManager(key, nil, newBlocklist(t), zap.New(core))
	require.NoError(t, err)

	raw, err := m.Create("alice")
	require.NoError(t, err)
	_, claims, err := m.Parse(raw)
	require.NoError(t, err)
	require.NoError(t, m.Block(ctx, claims))

	_, _, err = m.Validate(ctx, raw)
	require.ErrorIs(t, err, ErrTokenBlocked)

	rejected := logs.FilterMessage("rejected revoked session").All()
	require.Len(t, rejected, 1)
	fields := rejected[0].ContextMap()
	assert.Equal(t, token.Fingerprint(raw, key), fields["token"])
	assert.Equal(t, m.Fingerprint(raw), fields["token"])
	for _, e := range logs.All() {
		for _, v := range e.ContextMap() {
			assert.NotEqual(t, raw, v, "raw token must not be logged")
		}
	}
}

func TestValidateRejects(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	t.Run("expired", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		raw, err := m.Create("alice")
		m.now = time.Now
		require.NoError(t, err)
		_, _, err = m.Validate(ctx, raw)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := NewManager([]byte("0123456789abcdef0123456789abcdef"), nil, newBlocklist(t), zap.NewNop())
		require.NoError(t, err)
		raw, err := other.Create("alice")
		require.NoError(t, err)
		_, _, err = m.Validate(ctx, raw)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := m.Validate(ctx, "not.a.jwt")
		assert.Error(t, err)
	})
}

func TestUsername(t *testing.T) {
	tests := []struct {
		subject string
		want    string
		wantErr bool
	}{
		{subject: "alice:login", want: "alice"},
		{subject: "a:b:login", want: "a:b"},
		{subject: "alice:apiKey", wantErr: true},
		{subject: ":login", wantErr: true},
		{subject: "alice", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Username(tt.subject)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidSubject, tt.subject)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
