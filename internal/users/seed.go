package users

import (
	"context"
	"fmt"

	"github.com/aulaeco/recicla-backend/pkg/config"
	"github.com/aulaeco/recicla-backend/pkg/db/models"
	"github.com/aulaeco/recicla-backend/pkg/logger"
	"github.com/aulaeco/recicla-backend/pkg/security"
)

// DemoAccount is one of the fixed accounts the demo deployment ships with.
type DemoAccount struct {
	Username string
	Password string
	Role     string
}

// DemoAccounts lists the fixed roster in insertion order, so autoincrement
// ids line up with the ledger seed policy: the admin takes id 1 and the
// three recyclers take ids 2 to 4.
func DemoAccounts() []DemoAccount {
	return []DemoAccount{
		{Username: "Santiago", Password: "santiago123", Role: models.RoleAdmin},
		{Username: "Julian", Password: "julian123", Role: models.RoleUser},
		{Username: "Anita", Password: "anita123", Role: models.RoleUser},
		{Username: "Mauricio", Password: "mauricio123", Role: models.RoleUser},
	}
}

// EnsureDemoUsers creates every missing demo account. Existing accounts are
// left alone, passwords included.
func EnsureDemoUsers(ctx context.Context, repo Repository, cfg config.PasswordConfig, logg *logger.Logger) error {
	for _, account := range DemoAccounts() {
		if _, err := repo.FindByUsername(ctx, account.Username); err == nil {
			continue
		}
		hash, err := security.HashPassword(account.Password, cfg)
		if err != nil {
			return fmt.Errorf("hashing password for %s: %w", account.Username, err)
		}
		user := models.User{
			Username:     account.Username,
			PasswordHash: hash,
			Role:         account.Role,
		}
		if err := repo.Create(ctx, &user); err != nil {
			return fmt.Errorf("creating demo user %s: %w", account.Username, err)
		}
		logg.Info(logg.WithFields(ctx, map[string]any{
			"username": account.Username,
			"user_id":  user.ID,
			"role":     account.Role,
		}), "demo user created")
	}
	return nil
}
