package reference

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"maintenance-agent/internal/domain"
)

const (
	scheduleParam   = "/reference/maintenance_schedule"
	inductionsParam = "/reference/inductions"
	defaultTTL      = 5 * time.Minute
)

// ParamsGetter fetches several SSM parameters at once.
type ParamsGetter interface {
	GetParameters(ctx context.Context, names ...string) (map[string]string, error)
}

// SSMProvider serves reference tables stored as YAML in Parameter Store.
// Decoded tables are cached for ttl; a failed refresh is retried on the next call.
type SSMProvider struct {
	params ParamsGetter
	prefix string
	ttl    time.Duration
	now    func() time.Time

	mu         sync.RWMutex
	loadedAt   time.Time
	schedule   domain.ScheduleTable
	inductions domain.InductionTable
}

func NewSSMProvider(p ParamsGetter, prefix string, ttl time.Duration) (*SSMProvider, error) {
	if p == nil {
		return nil, errors.New("reference: params getter must not be nil")
	}
	prefix = strings.TrimRight(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return nil, errors.New("reference: parameter prefix must not be empty")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SSMProvider{params: p, prefix: prefix, ttl: ttl, now: time.Now}, nil
}

func (p *SSMProvider) ScheduleTable(ctx context.Context) (domain.ScheduleTable, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return domain.ScheduleTable{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.schedule, nil
}

func (p *SSMProvider) InductionTable(ctx context.Context) (domain.InductionTable, error) {
	if err := p.ensureLoaded(ctx); err != nil {
		return domain.InductionTable{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.inductions, nil
}

func (p *SSMProvider) fresh() bool {
	return !p.loadedAt.IsZero() && p.now().Sub(p.loadedAt) < p.ttl
}

func (p *SSMProvider) ensureLoaded(ctx context.Context) error {
	p.mu.RLock()
	if p.fresh() {
		p.mu.RUnlock()
		return nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fresh() {
		return nil
	}

	scheduleName, inductionsName := p.prefix+scheduleParam, p.prefix+inductionsParam
	values, err := p.params.GetParameters(ctx, scheduleName, inductionsName)
	if err != nil {
		return fmt.Errorf("reference: load parameters: %w", err)
	}
	schedule, err := DecodeSchedule([]byte(values[scheduleName]))
	if err != nil {
		return err
	}
	inductions, err := DecodeInductions([]byte(values[inductionsName]))
	if err != nil {
		return err
	}

	p.schedule = schedule
	p.inductions = inductions
	p.loadedAt = p.now()
	return nil
}
