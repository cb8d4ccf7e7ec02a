package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/routewise/pmconfig/internal/domain"
	"github.com/routewise/pmconfig/internal/infra"
	"github.com/routewise/pmconfig/internal/loader"
	"github.com/routewise/pmconfig/internal/registry"
	"github.com/routewise/pmconfig/internal/repository"
)

// ReloadEvent is published to Kafka after every successful load so
// routing-engine replicas refresh their view.
type ReloadEvent struct {
	Path     string    `json:"path"`
	Checksum string    `json:"checksum"`
	LoadedAt time.Time `json:"loaded_at"`
}

// LoadResult summarizes a successful load for callers.
type LoadResult struct {
	Checksum   string    `json:"checksum"`
	Connectors int       `json:"connectors"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// ConfigService owns the configuration lifecycle: initial load, reload with
// atomic swap, audit records and reload signalling. A failed reload leaves
// the active model untouched.
type ConfigService struct {
	path     string
	registry *registry.Registry
	pool     *pgxpool.Pool // nil disables auditing
	loads    repository.LoadRepository
	producer *infra.KafkaProducer
	topic    string
	logger   *slog.Logger
}

// NewConfigService creates the service. pool may be nil to disable the audit
// trail; producer may be a disabled producer.
func NewConfigService(path string, reg *registry.Registry, pool *pgxpool.Pool, loads repository.LoadRepository, producer *infra.KafkaProducer, topic string, logger *slog.Logger) *ConfigService {
	return &ConfigService{
		path:     path,
		registry: reg,
		pool:     pool,
		loads:    loads,
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// LoadInitial performs the startup load. Any parse or validation failure is
// fatal; the process must not start with a partially loaded model.
func (s *ConfigService) LoadInitial(ctx context.Context) (*LoadResult, error) {
	return s.load(ctx, "startup")
}

// Reload re-parses the document and swaps the active model atomically. On
// failure the previous model stays active and the rejection is audited.
func (s *ConfigService) Reload(ctx context.Context, actor string) (*LoadResult, error) {
	return s.load(ctx, actor)
}

func (s *ConfigService) load(ctx context.Context, actor string) (*LoadResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	cfg, err := loader.Load(data)
	if err != nil {
		s.audit(ctx, checksum, domain.LoadOutcomeRejected, err, actor)
		return nil, err
	}

	s.registry.Swap(cfg)
	s.audit(ctx, checksum, domain.LoadOutcomeLoaded, nil, actor)

	result := &LoadResult{Checksum: checksum, Connectors: len(cfg.Connectors), LoadedAt: time.Now().UTC()}
	s.logger.Info("configuration loaded",
		"path", s.path,
		"checksum", checksum,
		"connectors", result.Connectors,
		"actor", actor,
	)

	if err := s.producer.PublishJSON(ctx, s.topic, checksum, ReloadEvent{
		Path:     s.path,
		Checksum: checksum,
		LoadedAt: result.LoadedAt,
	}); err != nil {
		// The new model is already active; a missed signal only delays
		// replica refresh.
		s.logger.Error("publish reload event failed", "error", err)
	}

	return result, nil
}

// History returns recent load attempts, newest first. Returns nil when
// auditing is disabled.
func (s *ConfigService) History(ctx context.Context, limit int) ([]domain.ConfigLoad, error) {
	if s.pool == nil {
		return nil, nil
	}
	return s.loads.ListRecent(ctx, s.pool, limit)
}

// AuditEnabled reports whether load attempts are being recorded.
func (s *ConfigService) AuditEnabled() bool {
	return s.pool != nil
}

func (s *ConfigService) audit(ctx context.Context, checksum, outcome string, cause error, actor string) {
	if s.pool == nil {
		return
	}
	load := &domain.ConfigLoad{
		ID:       uuid.New(),
		Path:     s.path,
		Checksum: checksum,
		Outcome:  outcome,
		Actor:    actor,
	}
	if cause != nil {
		var verrs domain.ValidationErrors
		if errors.As(cause, &verrs) {
			load.ErrorCount = len(verrs)
		} else {
			load.ErrorCount = 1
		}
		load.Detail = cause.Error()
	}
	if err := s.loads.Insert(ctx, s.pool, load); err != nil {
		s.logger.Error("record config load failed", "error", err)
	}
}
