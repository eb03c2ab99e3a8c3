/*
seed.go - Demo users for development and demonstrations

PURPOSE:
  Populates an empty database with one user per role so the API can be
  exercised right away with X-User-ID headers:

	user-admin      admin@demo.com      admin      EMP001  IT
	user-manager    manager@demo.com    manager    EMP002  Operations
	user-employee   employee@demo.com   employee   EMP003  Sales

  Seeding is idempotent: IDs are stable and records are upserted, so
  running it twice leaves the same three users. Existing sessions and
  leave are untouched.

USAGE:
  POST /api/seed            (disabled when APP_ENV=production)
  timekeeper seed --db ...  (CLI)

SEE ALSO:
  - cmd/timekeeper/main.go: CLI seed command
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/timekeeper/core"
)

// =============================================================================
// DEMO USERS
// =============================================================================

var demoUsers = []core.User{
	{
		ID:    "user-admin",
		Email: "admin@demo.com",
		Role:  core.RoleAdmin,
		Profile: &core.Profile{
			EmployeeCode: "EMP001",
			FirstName:    "Admin",
			LastName:     "User",
			Department:   "IT",
			Position:     "System Administrator",
			HireDate:     time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC),
			Salary:       decimal.NewFromInt(95000),
		},
	},
	{
		ID:    "user-manager",
		Email: "manager@demo.com",
		Role:  core.RoleManager,
		Profile: &core.Profile{
			EmployeeCode: "EMP002",
			FirstName:    "Manager",
			LastName:     "User",
			Department:   "Operations",
			Position:     "Operations Manager",
			HireDate:     time.Date(2021, 3, 20, 0, 0, 0, 0, time.UTC),
			Salary:       decimal.NewFromInt(75000),
		},
	},
	{
		ID:    "user-employee",
		Email: "employee@demo.com",
		Role:  core.RoleEmployee,
		Profile: &core.Profile{
			EmployeeCode: "EMP003",
			FirstName:    "Employee",
			LastName:     "User",
			Department:   "Sales",
			Position:     "Sales Representative",
			HireDate:     time.Date(2022, 6, 10, 0, 0, 0, 0, time.UTC),
			Salary:       decimal.NewFromInt(55000),
		},
	},
}

// SeedDemoUsers upserts the demo users and returns them as stored.
// CreatedAt is set to now only for users that did not exist yet.
func SeedDemoUsers(ctx context.Context, store core.Store, now time.Time) ([]core.User, error) {
	seeded := make([]core.User, 0, len(demoUsers))
	err := store.WithTx(ctx, func(tx core.Store) error {
		for _, u := range demoUsers {
			p := *u.Profile
			u.Profile = &p
			u.CreatedAt = now.UTC()

			existing, err := tx.GetUser(ctx, u.ID)
			switch {
			case err == nil:
				u.CreatedAt = existing.CreatedAt
			case !errors.Is(err, core.ErrUserNotFound):
				return err
			}

			if err := tx.SaveUser(ctx, u); err != nil {
				return fmt.Errorf("seeding %s: %w", u.Email, err)
			}
			seeded = append(seeded, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seeded, nil
}

// Seed loads the demo users.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	users, err := SeedDemoUsers(r.Context(), h.Store, h.now())
	if err != nil {
		writeErrorFrom(w, r, err)
		return
	}
	h.Logger.Info("demo users seeded", "count", len(users))

	out := make([]UserDTO, 0, len(users))
	for _, u := range users {
		out = append(out, toUserDTO(u))
	}
	ok(w, http.StatusOK, out)
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}
