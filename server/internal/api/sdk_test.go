package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/common"
	"github.com/everest-platform/console/sdk"
)

func newSDKClient(t *testing.T, srv *httptest.Server) *sdk.Client {
	t.Helper()
	c, err := sdk.NewClient(sdk.ClientConfig{
		BaseURL:       srv.URL,
		HTTPClient:    srv.Client(),
		RetryAttempts: -1,
	})
	require.NoError(t, err)
	return c
}

func TestSDKAgainstRouter(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := newSDKClient(t, srv)

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", v.Version)
	require.NoError(t, c.Ready(ctx))

	_, err = c.ListNamespaces(ctx)
	require.ErrorIs(t, err, sdk.ErrUnauthorized)

	require.ErrorIs(t, c.Login(ctx, common.EverestAdminUser, "wrong"), sdk.ErrUnauthorized)
	require.NoError(t, c.Login(ctx, common.EverestAdminUser, "s3cr3t-pass"))

	namespaces, err := c.ListNamespaces(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "prod"}, namespaces)

	created, err := c.CreateBackupStorage(ctx, "dev", &models.CreateBackupStorageRequest{
		Name:      "s3",
		Type:      models.BackupStorageTypeS3,
		Bucket:    "backups",
		Region:    "us-east-1",
		AccessKey: "AKIA",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "backups", created.Spec.Bucket)

	_, err = c.CreateBackupStorage(ctx, "dev", &models.CreateBackupStorageRequest{
		Name:      "s3",
		Type:      models.BackupStorageTypeS3,
		Bucket:    "backups",
		AccessKey: "AKIA",
		SecretKey: "secret",
	})
	require.ErrorIs(t, err, sdk.ErrConflict)

	_, err = c.CreateBackupStorage(ctx, "dev", &models.CreateBackupStorageRequest{
		Name:   "gcs",
		Type:   "gcs",
		Bucket: "backups",
	})
	require.ErrorIs(t, err, sdk.ErrBadRequest)
	var apiErr *sdk.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "not supported")
	assert.NotEmpty(t, apiErr.RequestID)

	description := "nightly"
	updated, err := c.UpdateBackupStorage(ctx, "dev", "s3", &models.UpdateBackupStorageRequest{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, "nightly", updated.Spec.Description)

	list, err := c.ListBackupStorages(ctx, "dev")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)

	_, err = c.GetDatabaseCluster(ctx, "dev", "ghost")
	require.ErrorIs(t, err, sdk.ErrNotFound)

	require.NoError(t, c.DeleteBackupStorage(ctx, "dev", "s3"))
	_, err = c.GetBackupStorage(ctx, "dev", "s3")
	require.ErrorIs(t, err, sdk.ErrNotFound)

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Token())
}

func TestSDKForbidden(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()
	c := newSDKClient(t, srv)
	require.NoError(t, c.Login(ctx, "alice", "s3cr3t-pass"))

	_, err := c.GetBackupStorage(ctx, "prod", "s3")
	require.ErrorIs(t, err, sdk.ErrForbidden)

	perms, err := c.Permissions(ctx)
	require.NoError(t, err)
	assert.True(t, perms.Enabled)
	assert.NotEmpty(t, perms.Permissions)

	token := c.Token()
	require.NoError(t, c.Logout(ctx))

	// A copied token is revoked server side, not just forgotten.
	c.SetToken(token)
	_, err = c.ListNamespaces(ctx)
	require.ErrorIs(t, err, sdk.ErrUnauthorized)
}
