package kubernetes

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// InstallPlanGVK identifies OLM install plans. They are handled as
// unstructured objects so the OLM types need not be registered.
//
//nolint:gochecknoglobals
var InstallPlanGVK = schema.GroupVersionKind{
	Group:   "operators.coreos.com",
	Version: "v1alpha1",
	Kind:    "InstallPlan",
}

// ApproveInstallPlan sets spec.approved on an install plan.
// It returns true when the plan was already approved.
func (k *Kubernetes) ApproveInstallPlan(ctx context.Context, namespace, name string) (bool, error) {
	ip := &unstructured.Unstructured{}
	ip.SetGroupVersionKind(InstallPlanGVK)
	if err := k.get(ctx, "installplans", namespace, name, ip); err != nil {
		return false, err
	}

	approved, _, err := unstructured.NestedBool(ip.Object, "spec", "approved")
	if err != nil {
		return false, fmt.Errorf("install plan %s/%s has malformed spec.approved: %w", namespace, name, err)
	}
	if approved {
		return true, nil
	}

	if err := unstructured.SetNestedField(ip.Object, true, "spec", "approved"); err != nil {
		return false, err
	}
	if err := k.update(ctx, "installplans", ip); err != nil {
		return false, err
	}
	k.l.Infof("approved install plan %s/%s", namespace, name)
	return false, nil
}
