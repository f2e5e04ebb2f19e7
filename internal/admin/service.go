// Package admin owns the singleton admin registry: the authority that manages
// the admin set, and the set itself. The approval registry consults it for
// authorization and never mutates it.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"formledger/internal/admin/metrics"
	"formledger/internal/ledger"
	id "formledger/pkg/domain"
	dErrors "formledger/pkg/domain-errors"
	"formledger/pkg/platform/audit"
	"formledger/pkg/platform/sentinel"
)

// AuditPublisher emits audit events for registry mutations. Emission failures
// surface to the caller; mutations are not silently unaudited.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service executes admin registry operations against the ledger store. It
// holds no registry state between calls; every operation loads the current
// persisted snapshot, validates, and writes back.
type Service struct {
	store   ledger.Store
	logger  *slog.Logger
	auditor AuditPublisher
	metrics *metrics.Metrics
}

// Option configures the Service.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditor = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store ledger.Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("ledger store is required")
	}
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Initialize creates the singleton config with the caller as authority and
// sole admin. A second initialization fails because the config address is
// already occupied.
func (s *Service) Initialize(ctx context.Context, caller id.Address) error {
	if caller.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "caller address is required")
	}

	cfg := &Config{
		Authority:  caller,
		Admins:     []id.Address{caller},
		AdminCount: 1,
	}
	payload, err := encodeConfig(cfg)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to initialize admin config")
	}

	if err := s.store.Create(ctx, ledger.ConfigAddress(), payload); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return ErrAlreadyInitialized
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to initialize admin config")
	}

	if err := s.emit(ctx, audit.NewEvent(audit.CategorySecurity, audit.ActionConfigInitialized, caller)); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ActiveAdmins.Set(1)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "admin config initialized", "authority", caller.String())
	}
	return nil
}

// AddAdmin appends a new admin to the set. Only the authority may call it.
func (s *Service) AddAdmin(ctx context.Context, caller, newAdmin id.Address) error {
	if newAdmin.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "admin address is required")
	}

	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Authority != caller {
		return ErrUnauthorizedAdmin
	}
	if err := cfg.addAdmin(newAdmin); err != nil {
		return err
	}
	if err := s.persist(ctx, cfg); err != nil {
		return err
	}

	event := audit.NewEvent(audit.CategorySecurity, audit.ActionAdminAdded, caller)
	event.Subject = newAdmin.String()
	if err := s.emit(ctx, event); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.AdminsAdded.Inc()
		s.metrics.ActiveAdmins.Set(float64(cfg.AdminCount))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "admin added",
			"admin", newAdmin.String(),
			"admin_count", cfg.AdminCount,
		)
	}
	return nil
}

// RemoveAdmin removes an admin from the set. Only the authority may call it,
// and the set is never emptied: removal fails outright while only one admin
// remains, regardless of target.
func (s *Service) RemoveAdmin(ctx context.Context, caller, target id.Address) error {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Authority != caller {
		return ErrUnauthorizedAdmin
	}
	if err := cfg.removeAdmin(target); err != nil {
		return err
	}
	if err := s.persist(ctx, cfg); err != nil {
		return err
	}

	event := audit.NewEvent(audit.CategorySecurity, audit.ActionAdminRemoved, caller)
	event.Subject = target.String()
	if err := s.emit(ctx, event); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.AdminsRemoved.Inc()
		s.metrics.ActiveAdmins.Set(float64(cfg.AdminCount))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "admin removed",
			"admin", target.String(),
			"admin_count", cfg.AdminCount,
		)
	}
	return nil
}

// IsAdmin reports whether addr is in the active admin set. Pure read.
func (s *Service) IsAdmin(ctx context.Context, addr id.Address) (bool, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return false, err
	}
	return cfg.IsAdmin(addr), nil
}

// Registry returns the current config snapshot. Pure read.
func (s *Service) Registry(ctx context.Context) (*Config, error) {
	return s.loadConfig(ctx)
}

func (s *Service) loadConfig(ctx context.Context) (*Config, error) {
	payload, err := s.store.Get(ctx, ledger.ConfigAddress())
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, ErrNotInitialized
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load admin config")
	}
	cfg, err := decodeConfig(payload)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load admin config")
	}
	return cfg, nil
}

func (s *Service) persist(ctx context.Context, cfg *Config) error {
	payload, err := encodeConfig(cfg)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist admin config")
	}
	if err := s.store.Put(ctx, ledger.ConfigAddress(), payload); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist admin config")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditor == nil {
		return nil
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}
