package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/server/internal/storagecheck"
	"github.com/everest-platform/console/server/internal/util"
)

var errNoBucket = errors.New("bucketName cannot be empty")

func (h *validateHandler) ListBackupStorages(ctx context.Context, namespace string) (*models.BackupStorageList, error) {
	return h.next.ListBackupStorages(ctx, namespace)
}

func (h *validateHandler) GetBackupStorage(ctx context.Context, namespace, name string) (*models.BackupStorage, error) {
	return h.next.GetBackupStorage(ctx, namespace, name)
}

func (h *validateHandler) CreateBackupStorage(
	ctx context.Context,
	namespace string,
	req *models.CreateBackupStorageRequest,
) (*models.BackupStorage, error) {
	if err := validateCreateBackupStorageRequest(req); err != nil {
		return nil, invalid(err)
	}
	params := storagecheck.Params{
		Type:           req.Type,
		Bucket:         req.Bucket,
		Region:         req.Region,
		URL:            req.URL,
		AccessKey:      req.AccessKey,
		SecretKey:      req.SecretKey,
		ForcePathStyle: boolOr(req.ForcePathStyle, false),
		VerifyTLS:      boolOr(req.VerifyTLS, true),
	}
	if err := h.checkStorage(ctx, params); err != nil {
		return nil, err
	}
	return h.next.CreateBackupStorage(ctx, namespace, req)
}

func validateCreateBackupStorageRequest(req *models.CreateBackupStorageRequest) error {
	if err := util.ValidateRFC1035(req.Name, "name"); err != nil {
		return err
	}
	switch req.Type {
	case models.BackupStorageTypeS3, models.BackupStorageTypeAzure:
	default:
		return fmt.Errorf("backup storage type %s is not supported", req.Type)
	}
	if req.Bucket == "" {
		return errNoBucket
	}
	if req.URL != "" {
		return util.ValidateURLField(req.URL, "url")
	}
	return nil
}

// UpdateBackupStorage re-verifies access when a field used to reach the
// storage changes. Unchanged fields are taken from the stored object.
func (h *validateHandler) UpdateBackupStorage(
	ctx context.Context,
	namespace, name string,
	req *models.UpdateBackupStorageRequest,
) (*models.BackupStorage, error) {
	if req.URL != nil && *req.URL != "" {
		if err := util.ValidateURLField(*req.URL, "url"); err != nil {
			return nil, invalid(err)
		}
	}
	if req.Bucket != nil && *req.Bucket == "" {
		return nil, invalid(errNoBucket)
	}

	if connectionChanged(req) {
		params, err := h.storageParams(ctx, namespace, name, req)
		if err != nil {
			return nil, err
		}
		if err := h.checkStorage(ctx, params); err != nil {
			return nil, err
		}
	}
	return h.next.UpdateBackupStorage(ctx, namespace, name, req)
}

func connectionChanged(req *models.UpdateBackupStorageRequest) bool {
	return req.AccessKey != nil || req.SecretKey != nil || req.Bucket != nil ||
		req.Region != nil || req.URL != nil || req.ForcePathStyle != nil || req.VerifyTLS != nil
}

func (h *validateHandler) storageParams(
	ctx context.Context,
	namespace, name string,
	req *models.UpdateBackupStorageRequest,
) (storagecheck.Params, error) {
	bs, err := h.kube.GetBackupStorage(ctx, namespace, name)
	if err != nil {
		return storagecheck.Params{}, err
	}
	secret, err := h.kube.GetSecret(ctx, namespace, bs.Spec.CredentialsSecretName)
	if err != nil {
		return storagecheck.Params{}, fmt.Errorf("failed to read credentials secret: %w", err)
	}
	accessKey, secretKey := storageSecretKeys(bs.Spec.Type)
	p := storagecheck.Params{
		Type:           bs.Spec.Type,
		Bucket:         stringOr(req.Bucket, bs.Spec.Bucket),
		Region:         stringOr(req.Region, bs.Spec.Region),
		URL:            stringOr(req.URL, bs.Spec.EndpointURL),
		AccessKey:      stringOr(req.AccessKey, string(secret.Data[accessKey])),
		SecretKey:      stringOr(req.SecretKey, string(secret.Data[secretKey])),
		ForcePathStyle: boolOr(req.ForcePathStyle, boolOr(bs.Spec.ForcePathStyle, false)),
		VerifyTLS:      boolOr(req.VerifyTLS, boolOr(bs.Spec.VerifyTLS, true)),
	}
	return p, nil
}

func (h *validateHandler) checkStorage(ctx context.Context, p storagecheck.Params) error {
	if err := h.storage.Check(ctx, p); err != nil {
		h.l.Info("backup storage check failed", zap.String("bucket", p.Bucket), zap.Error(err))
		return invalid(err)
	}
	return nil
}

// DeleteBackupStorage refuses to delete a storage referenced by a cluster.
func (h *validateHandler) DeleteBackupStorage(ctx context.Context, namespace, name string) error {
	dbs, err := h.kube.ListDatabaseClusters(ctx, namespace)
	if err != nil {
		return err
	}
	for _, db := range dbs.Items {
		if usesStorage(&db, name) {
			return invalid(fmt.Errorf("%w by database cluster %s", errStorageInUse, db.GetName()))
		}
	}
	return h.next.DeleteBackupStorage(ctx, namespace, name)
}

func usesStorage(db *models.DatabaseCluster, storage string) bool {
	for _, s := range db.Spec.Backup.Schedules {
		if s.BackupStorageName == storage {
			return true
		}
	}
	pitr := db.Spec.Backup.PITR.BackupStorageName
	return pitr != nil && *pitr == storage
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
