package service

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/everest-platform/console/models"
)

// Secret keys the operators read backup storage credentials from.
const (
	s3AccessKeyID        = "AWS_ACCESS_KEY_ID"
	s3SecretAccessKey    = "AWS_SECRET_ACCESS_KEY"
	azureStorageAccount  = "AZURE_STORAGE_ACCOUNT_NAME"
	azureStorageKey      = "AZURE_STORAGE_ACCOUNT_KEY"
	monitoringAPIKey     = "apiKey"
	monitoringUsername   = "username"
	monitoringPassword   = "password"
	backupStorageKind    = "BackupStorage"
	monitoringConfigKind = "MonitoringConfig"
)

func storageSecretKeys(t models.BackupStorageType) (string, string) {
	if t == models.BackupStorageTypeAzure {
		return azureStorageAccount, azureStorageKey
	}
	return s3AccessKeyID, s3SecretAccessKey
}

func credentialsSecret(namespace, name string, data map[string]string) *corev1.Secret {
	s := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
		Type:       corev1.SecretTypeOpaque,
		Data:       make(map[string][]byte, len(data)),
	}
	for k, v := range data {
		s.Data[k] = []byte(v)
	}
	return s
}

func (h *k8sHandler) ListBackupStorages(ctx context.Context, namespace string) (*models.BackupStorageList, error) {
	return h.kube.ListBackupStorages(ctx, namespace)
}

func (h *k8sHandler) GetBackupStorage(ctx context.Context, namespace, name string) (*models.BackupStorage, error) {
	return h.kube.GetBackupStorage(ctx, namespace, name)
}

// CreateBackupStorage stores the credentials in a Secret named after the
// storage and then creates the BackupStorage pointing at it.
func (h *k8sHandler) CreateBackupStorage(ctx context.Context, namespace string, req *models.CreateBackupStorageRequest) (*models.BackupStorage, error) {
	accessKey, secretKey := storageSecretKeys(req.Type)
	secret := credentialsSecret(namespace, req.Name, map[string]string{
		accessKey: req.AccessKey,
		secretKey: req.SecretKey,
	})
	if err := h.kube.CreateSecret(ctx, secret); err != nil {
		return nil, fmt.Errorf("failed to create credentials secret: %w", err)
	}

	bs := &models.BackupStorage{
		TypeMeta:   metav1.TypeMeta{APIVersion: models.APIVersion, Kind: backupStorageKind},
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: req.Name},
		Spec: models.BackupStorageSpec{
			Type:                  req.Type,
			Bucket:                req.Bucket,
			Region:                req.Region,
			EndpointURL:           req.URL,
			Description:           req.Description,
			CredentialsSecretName: req.Name,
			ForcePathStyle:        req.ForcePathStyle,
			VerifyTLS:             req.VerifyTLS,
		},
	}
	created, err := h.kube.CreateBackupStorage(ctx, bs)
	if err != nil {
		if delErr := h.kube.DeleteSecret(ctx, namespace, req.Name); ctrlclient.IgnoreNotFound(delErr) != nil {
			h.l.Sugar().Warnw("failed to remove orphaned credentials secret", "secret", req.Name, "error", delErr)
		}
		return nil, err
	}
	return created, nil
}

func (h *k8sHandler) UpdateBackupStorage(
	ctx context.Context,
	namespace, name string,
	req *models.UpdateBackupStorageRequest,
) (*models.BackupStorage, error) {
	bs, err := h.kube.GetBackupStorage(ctx, namespace, name)
	if err != nil {
		return nil, err
	}

	if req.AccessKey != nil || req.SecretKey != nil {
		secret, err := h.kube.GetSecret(ctx, namespace, bs.Spec.CredentialsSecretName)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials secret: %w", err)
		}
		accessKey, secretKey := storageSecretKeys(bs.Spec.Type)
		if secret.Data == nil {
			secret.Data = map[string][]byte{}
		}
		if req.AccessKey != nil {
			secret.Data[accessKey] = []byte(*req.AccessKey)
		}
		if req.SecretKey != nil {
			secret.Data[secretKey] = []byte(*req.SecretKey)
		}
		if err := h.kube.UpdateSecret(ctx, secret); err != nil {
			return nil, fmt.Errorf("failed to update credentials secret: %w", err)
		}
	}

	if req.Bucket != nil {
		bs.Spec.Bucket = *req.Bucket
	}
	if req.Region != nil {
		bs.Spec.Region = *req.Region
	}
	if req.URL != nil {
		bs.Spec.EndpointURL = *req.URL
	}
	if req.Description != nil {
		bs.Spec.Description = *req.Description
	}
	if req.ForcePathStyle != nil {
		bs.Spec.ForcePathStyle = req.ForcePathStyle
	}
	if req.VerifyTLS != nil {
		bs.Spec.VerifyTLS = req.VerifyTLS
	}
	return h.kube.UpdateBackupStorage(ctx, bs)
}

func (h *k8sHandler) DeleteBackupStorage(ctx context.Context, namespace, name string) error {
	bs, err := h.kube.GetBackupStorage(ctx, namespace, name)
	if err != nil {
		return err
	}
	if err := h.kube.DeleteBackupStorage(ctx, namespace, name); err != nil {
		return err
	}
	return ctrlclient.IgnoreNotFound(h.kube.DeleteSecret(ctx, namespace, bs.Spec.CredentialsSecretName))
}

func (h *k8sHandler) ListMonitoringInstances(ctx context.Context, namespace string) (*models.MonitoringConfigList, error) {
	return h.kube.ListMonitoringConfigs(ctx, namespace)
}

func (h *k8sHandler) GetMonitoringInstance(ctx context.Context, namespace, name string) (*models.MonitoringConfig, error) {
	return h.kube.GetMonitoringConfig(ctx, namespace, name)
}

func pmmSecretData(pmm *models.PMMCredentials) map[string]string {
	if pmm.APIKey != "" {
		return map[string]string{monitoringAPIKey: pmm.APIKey}
	}
	return map[string]string{monitoringUsername: pmm.User, monitoringPassword: pmm.Password}
}

func (h *k8sHandler) CreateMonitoringInstance(
	ctx context.Context,
	namespace string,
	req *models.CreateMonitoringInstanceRequest,
) (*models.MonitoringConfig, error) {
	if err := h.kube.CreateSecret(ctx, credentialsSecret(namespace, req.Name, pmmSecretData(req.PMM))); err != nil {
		return nil, fmt.Errorf("failed to create credentials secret: %w", err)
	}
	mc := &models.MonitoringConfig{
		TypeMeta:   metav1.TypeMeta{APIVersion: models.APIVersion, Kind: monitoringConfigKind},
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: req.Name},
		Spec: models.MonitoringConfigSpec{
			Type:                  req.Type,
			CredentialsSecretName: req.Name,
			PMM:                   models.PMMConfig{URL: req.URL},
			VerifyTLS:             req.VerifyTLS,
		},
	}
	created, err := h.kube.CreateMonitoringConfig(ctx, mc)
	if err != nil {
		if delErr := h.kube.DeleteSecret(ctx, namespace, req.Name); ctrlclient.IgnoreNotFound(delErr) != nil {
			h.l.Sugar().Warnw("failed to remove orphaned credentials secret", "secret", req.Name, "error", delErr)
		}
		return nil, err
	}
	return created, nil
}

func (h *k8sHandler) UpdateMonitoringInstance(
	ctx context.Context,
	namespace, name string,
	req *models.UpdateMonitoringInstanceRequest,
) (*models.MonitoringConfig, error) {
	mc, err := h.kube.GetMonitoringConfig(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	if req.PMM != nil {
		secret, err := h.kube.GetSecret(ctx, namespace, mc.Spec.CredentialsSecretName)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials secret: %w", err)
		}
		secret.Data = credentialsSecret(namespace, name, pmmSecretData(req.PMM)).Data
		if err := h.kube.UpdateSecret(ctx, secret); err != nil {
			return nil, fmt.Errorf("failed to update credentials secret: %w", err)
		}
	}
	if req.Type != "" {
		mc.Spec.Type = req.Type
	}
	if req.URL != "" {
		mc.Spec.PMM.URL = req.URL
	}
	if req.VerifyTLS != nil {
		mc.Spec.VerifyTLS = req.VerifyTLS
	}
	return h.kube.UpdateMonitoringConfig(ctx, mc)
}

func (h *k8sHandler) DeleteMonitoringInstance(ctx context.Context, namespace, name string) error {
	mc, err := h.kube.GetMonitoringConfig(ctx, namespace, name)
	if err != nil {
		return err
	}
	if err := h.kube.DeleteMonitoringConfig(ctx, namespace, name); err != nil {
		return err
	}
	return ctrlclient.IgnoreNotFound(h.kube.DeleteSecret(ctx, namespace, mc.Spec.CredentialsSecretName))
}
