package kubernetes

import (
	"context"

	corev1 "k8s.io/api/core/v1"
)

// GetConfigMap returns a config map.
func (k *Kubernetes) GetConfigMap(ctx context.Context, namespace, name string) (*corev1.ConfigMap, error) {
	cm := &corev1.ConfigMap{}
	if err := k.get(ctx, "configmaps", namespace, name, cm); err != nil {
		return nil, err
	}
	return cm, nil
}

// CreateConfigMap creates a config map.
func (k *Kubernetes) CreateConfigMap(ctx context.Context, cm *corev1.ConfigMap) error {
	return k.create(ctx, "configmaps", cm)
}

// UpdateConfigMap updates a config map.
func (k *Kubernetes) UpdateConfigMap(ctx context.Context, cm *corev1.ConfigMap) error {
	return k.update(ctx, "configmaps", cm)
}

// GetSecret returns a secret.
func (k *Kubernetes) GetSecret(ctx context.Context, namespace, name string) (*corev1.Secret, error) {
	s := &corev1.Secret{}
	if err := k.get(ctx, "secrets", namespace, name, s); err != nil {
		return nil, err
	}
	return s, nil
}

// CreateSecret creates a secret.
func (k *Kubernetes) CreateSecret(ctx context.Context, s *corev1.Secret) error {
	return k.create(ctx, "secrets", s)
}

// UpdateSecret updates a secret.
func (k *Kubernetes) UpdateSecret(ctx context.Context, s *corev1.Secret) error {
	return k.update(ctx, "secrets", s)
}

// DeleteSecret deletes a secret.
func (k *Kubernetes) DeleteSecret(ctx context.Context, namespace, name string) error {
	return k.delete(ctx, "secrets", &corev1.Secret{ObjectMeta: objectMeta(namespace, name)})
}
