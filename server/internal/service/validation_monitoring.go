package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/everest-platform/console/models"
	"github.com/everest-platform/console/pkg/common"
	"github.com/everest-platform/console/server/internal/util"
)

var errPMMCredentials = errors.New("pmm.apiKey or pmm.user with pmm.password fields are required")

func (h *validateHandler) ListMonitoringInstances(ctx context.Context, namespace string) (*models.MonitoringConfigList, error) {
	return h.next.ListMonitoringInstances(ctx, namespace)
}

func (h *validateHandler) GetMonitoringInstance(ctx context.Context, namespace, name string) (*models.MonitoringConfig, error) {
	return h.next.GetMonitoringInstance(ctx, namespace, name)
}

func (h *validateHandler) CreateMonitoringInstance(
	ctx context.Context,
	namespace string,
	req *models.CreateMonitoringInstanceRequest,
) (*models.MonitoringConfig, error) {
	if err := validateCreateMonitoringInstance(req); err != nil {
		return nil, invalid(err)
	}
	return h.next.CreateMonitoringInstance(ctx, namespace, req)
}

func validateCreateMonitoringInstance(req *models.CreateMonitoringInstanceRequest) error {
	if err := util.ValidateRFC1035(req.Name, "name"); err != nil {
		return err
	}
	if err := util.ValidateURLField(req.URL, "url"); err != nil {
		return err
	}
	if req.Type != models.MonitoringTypePMM {
		return fmt.Errorf("monitoring type %s is not supported", req.Type)
	}
	if req.PMM == nil {
		return fmt.Errorf("pmm key is required for type %s", req.Type)
	}
	if req.PMM.APIKey == "" && (req.PMM.User == "" || req.PMM.Password == "") {
		return errPMMCredentials
	}
	return nil
}

func (h *validateHandler) UpdateMonitoringInstance(
	ctx context.Context,
	namespace, name string,
	req *models.UpdateMonitoringInstanceRequest,
) (*models.MonitoringConfig, error) {
	if err := validateUpdateMonitoringInstance(req); err != nil {
		return nil, invalid(err)
	}
	return h.next.UpdateMonitoringInstance(ctx, namespace, name, req)
}

func validateUpdateMonitoringInstance(req *models.UpdateMonitoringInstanceRequest) error {
	if req.URL != "" {
		if err := util.ValidateURLField(req.URL, "url"); err != nil {
			return err
		}
	}
	switch req.Type {
	case "":
	case models.MonitoringTypePMM:
		if req.PMM == nil {
			return fmt.Errorf("pmm key is required for type %s", req.Type)
		}
	default:
		return fmt.Errorf("monitoring type %s is not supported", req.Type)
	}
	return nil
}

// DeleteMonitoringInstance refuses to delete an instance clusters report to.
func (h *validateHandler) DeleteMonitoringInstance(ctx context.Context, namespace, name string) error {
	mc, err := h.kube.GetMonitoringConfig(ctx, namespace, name)
	if err != nil {
		return err
	}
	if mc.Status.InUse {
		return invalid(errMonitoringInUse)
	}
	dbs, err := h.kube.ListDatabaseClusters(ctx, namespace)
	if err != nil {
		return err
	}
	for _, db := range dbs.Items {
		if db.Spec.Monitoring != nil && db.Spec.Monitoring.MonitoringConfigName == name {
			return invalid(fmt.Errorf("%w by database cluster %s", errMonitoringInUse, db.GetName()))
		}
	}
	return h.next.DeleteMonitoringInstance(ctx, namespace, name)
}

func (h *validateHandler) ListDatabaseEngines(ctx context.Context, namespace string) (*models.DatabaseEngineList, error) {
	return h.next.ListDatabaseEngines(ctx, namespace)
}

func (h *validateHandler) GetDatabaseEngine(ctx context.Context, namespace, name string) (*models.DatabaseEngine, error) {
	return h.next.GetDatabaseEngine(ctx, namespace, name)
}

func (h *validateHandler) UpdateDatabaseEngine(ctx context.Context, e *models.DatabaseEngine) (*models.DatabaseEngine, error) {
	if err := validateMetadata(e); err != nil {
		return nil, invalid(err)
	}
	return h.next.UpdateDatabaseEngine(ctx, e)
}

func (h *validateHandler) GetUpgradePlan(ctx context.Context, namespace string) (*models.UpgradePlan, error) {
	return h.next.GetUpgradePlan(ctx, namespace)
}

func (h *validateHandler) ApproveUpgradePlan(ctx context.Context, namespace string) error {
	return h.next.ApproveUpgradePlan(ctx, namespace)
}

func (h *validateHandler) ListPodSchedulingPolicies(ctx context.Context, namespace string) (*models.PodSchedulingPolicyList, error) {
	return h.next.ListPodSchedulingPolicies(ctx, namespace)
}

func (h *validateHandler) GetPodSchedulingPolicy(ctx context.Context, namespace, name string) (*models.PodSchedulingPolicy, error) {
	return h.next.GetPodSchedulingPolicy(ctx, namespace, name)
}

func validatePodSchedulingPolicy(p *models.PodSchedulingPolicy) error {
	if err := validateMetadata(p); err != nil {
		return err
	}
	if err := util.ValidateRFC1035(p.GetName(), "metadata.name"); err != nil {
		return err
	}
	if _, ok := common.OperatorTypeToName[p.Spec.EngineType]; !ok {
		return errUnsupportedEngine
	}
	return nil
}

func (h *validateHandler) CreatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	if err := validatePodSchedulingPolicy(p); err != nil {
		return nil, invalid(err)
	}
	return h.next.CreatePodSchedulingPolicy(ctx, p)
}

func (h *validateHandler) UpdatePodSchedulingPolicy(ctx context.Context, p *models.PodSchedulingPolicy) (*models.PodSchedulingPolicy, error) {
	if err := validatePodSchedulingPolicy(p); err != nil {
		return nil, invalid(err)
	}
	return h.next.UpdatePodSchedulingPolicy(ctx, p)
}

func (h *validateHandler) DeletePodSchedulingPolicy(ctx context.Context, namespace, name string) error {
	return h.next.DeletePodSchedulingPolicy(ctx, namespace, name)
}
