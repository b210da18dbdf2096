// AngelaMos | 2026
// seed.go

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/quiz-platform/internal/core"
	"github.com/carterperez-dev/quiz-platform/internal/role"
	"github.com/carterperez-dev/quiz-platform/internal/user"
)

const demoPassword = "password123"

var demoAccounts = []struct {
	email    string
	fullName string
	role     string
}{
	{"admin@example.com", "Demo Admin", role.Admin},
	{"teacher@example.com", "Demo Teacher", role.Teacher},
	{"player@example.com", "Demo Player", role.Player},
}

// seedDemoAccounts creates one account per role. Existing emails are left
// untouched so the flag is safe to pass on every start.
func seedDemoAccounts(
	ctx context.Context,
	users *user.Service,
	roles *role.Resolver,
	logger *slog.Logger,
) error {
	for _, acct := range demoAccounts {
		taken, err := users.EmailTaken(ctx, acct.email)
		if err != nil {
			return fmt.Errorf("seed %s: %w", acct.email, err)
		}
		if taken {
			continue
		}

		roleID, err := roles.RoleIDByName(ctx, acct.role)
		if err != nil {
			return fmt.Errorf("seed %s: %w", acct.email, err)
		}

		hash, err := core.HashPassword(demoPassword)
		if err != nil {
			return fmt.Errorf("seed %s: %w", acct.email, err)
		}

		if _, err := users.Create(ctx, acct.email, hash, acct.fullName, roleID); err != nil {
			return fmt.Errorf("seed %s: %w", acct.email, err)
		}

		logger.Info("seeded demo account", "email", acct.email, "role", acct.role)
	}

	return nil
}
