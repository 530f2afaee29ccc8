package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Seeder creates the fixed roles and the optional bootstrap administrator.
type Seeder struct {
	roles  repository.RoleRepository
	users  repository.UserRepository
	hasher auth.Hasher
	cfg    config.SeedConfig
	logger *zap.Logger
}

// NewSeeder builds a seeder.
func NewSeeder(roles repository.RoleRepository, users repository.UserRepository, hasher auth.Hasher, cfg config.SeedConfig, logger *zap.Logger) *Seeder {
	return &Seeder{roles: roles, users: users, hasher: hasher, cfg: cfg, logger: orNop(logger)}
}

// Run is idempotent.
func (s *Seeder) Run(ctx context.Context) error {
	for _, seed := range domain.SeedRoles {
		exists, err := s.roles.ExistsByName(ctx, seed.Name, "")
		if err != nil {
			return fmt.Errorf("check role %s: %w", seed.Name, err)
		}
		if exists {
			continue
		}
		role := seed
		if err := s.roles.Create(ctx, &role); err != nil {
			return fmt.Errorf("seed role %s: %w", seed.Name, err)
		}
		s.logger.Info("seeded role", zap.String("role", role.Name))
	}
	return s.seedAdmin(ctx)
}

func (s *Seeder) seedAdmin(ctx context.Context) error {
	if s.cfg.AdminEmail == "" || s.cfg.AdminPassword == "" {
		return nil
	}
	email := domain.NormalizeEmail(s.cfg.AdminEmail)
	exists, err := s.users.ExistsByEmail(ctx, email, "")
	if err != nil {
		return fmt.Errorf("check admin user: %w", err)
	}
	if exists {
		return nil
	}
	role, err := s.roles.GetByName(ctx, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("load admin role: %w", err)
	}
	hash, err := s.hasher.Hash(s.cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := &domain.User{
		FirstName:    s.cfg.AdminFirstName,
		LastName:     s.cfg.AdminLastName,
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
		Active:       true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("seed admin user: %w", err)
	}
	s.logger.Info("seeded admin user", zap.String("email", email))
	return nil
}
