// Package watch polls the console API and reports database cluster status
// transitions.
package watch

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/everest-platform/console/models"
)

// DefaultInterval is the time between two polls.
const DefaultInterval = 5 * time.Second

// Lister lists the database clusters of a namespace. *sdk.Client is a Lister.
type Lister interface {
	ListDatabaseClusters(ctx context.Context, namespace string) (*models.DatabaseClusterList, error)
}

// Transition is a change of a cluster's status between two polls. From is
// empty for a new cluster and To is empty for a removed one.
type Transition struct {
	Name string          `json:"name"`
	From models.AppState `json:"from"`
	To   models.AppState `json:"to"`
}

// Poller reports cluster status transitions of a namespace.
type Poller struct {
	client    Lister
	logger    *zap.Logger
	namespace string
	interval  time.Duration
	onChange  func(Transition)

	// last observed status by cluster name
	statuses map[string]models.AppState
}

// PollerConfig holds configuration for creating a Poller.
type PollerConfig struct {
	Client    Lister
	Logger    *zap.Logger
	Namespace string
	// Interval defaults to DefaultInterval.
	Interval time.Duration
	// OnChange is called for every transition, in cluster name order.
	OnChange func(Transition)
}

// NewPoller creates a new cluster status poller.
func NewPoller(config PollerConfig) *Poller {
	interval := config.Interval
	if interval == 0 {
		interval = DefaultInterval
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		client:    config.Client,
		logger:    logger.With(zap.String("namespace", config.Namespace)),
		namespace: config.Namespace,
		interval:  interval,
		onChange:  config.OnChange,
	}
}

// Run polls until ctx is cancelled. The first poll reports every existing
// cluster as new.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("Cluster status poller started", zap.Duration("interval", p.interval))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Cluster status poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll fetches the clusters once and emits the transitions since the last
// successful poll. Failed polls keep the previous state.
func (p *Poller) poll(ctx context.Context) {
	list, err := p.client.ListDatabaseClusters(ctx, p.namespace)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("Failed to list database clusters", zap.Error(err))
		}
		return
	}

	current := make(map[string]models.AppState, len(list.Items))
	for _, db := range list.Items {
		current[db.GetName()] = db.Status.Status
	}

	var changes []Transition
	for name, status := range current {
		if prev, ok := p.statuses[name]; !ok || prev != status {
			changes = append(changes, Transition{Name: name, From: prev, To: status})
		}
	}
	for name, prev := range p.statuses {
		if _, ok := current[name]; !ok {
			changes = append(changes, Transition{Name: name, From: prev})
		}
	}
	p.statuses = current

	if len(changes) == 0 {
		p.logger.Debug("No status changes", zap.Int("clusters", len(current)))
		return
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Name < changes[j].Name })
	for _, c := range changes {
		p.logger.Debug("Cluster status changed",
			zap.String("cluster", c.Name),
			zap.String("from", string(c.From)),
			zap.String("to", string(c.To)),
		)
		if p.onChange != nil {
			p.onChange(c)
		}
	}
}
