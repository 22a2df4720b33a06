package service

import (
	"context"

	"github.com/everest-platform/console/models"
)

func (h *k8sHandler) ListPodSchedulingPolicies(ctx context.Context, namespace string) (*models.PodSchedulingPolicyList, error) {
	return h.kube.ListPodSchedulingPolicies(ctx, namespace)
}

func (h *k8sHandler) GetPodSchedulingPolicy(ctx context.Context, namespace, name string) (*models.PodSchedulingPolicy, error) {
	return h.kube.GetPodSchedulingPolicy(ctx, namespace, name)
}

func (h *k8sHandler) CreatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	p.APIVersion = models.APIVersion
	p.Kind = "PodSchedulingPolicy"
	return h.kube.CreatePodSchedulingPolicy(ctx, p)
}

func (h *k8sHandler) UpdatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	return h.kube.UpdatePodSchedulingPolicy(ctx, p)
}

func (h *k8sHandler) DeletePodSchedulingPolicy(ctx context.Context, namespace, name string) error {
	return h.kube.DeletePodSchedulingPolicy(ctx, namespace, name)
}
