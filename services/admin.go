package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mealroute/db"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultAdminEmail = "admin@mealroute.in"
	MinPasswordLength = 8
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrNoAdminProfile  = errors.New("admin password not set; run `mealroute admin set-password`")
)

// AdminProfile is the single back-office account.
type AdminProfile struct {
	Email string
	Name  string
}

// HashPassword returns the bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	if len(plain) < MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CheckPassword compares plain with a bcrypt hash.
func CheckPassword(hash, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// SetAdminPassword creates or updates the admin profile with a new password.
func SetAdminPassword(ctx context.Context, email, name, plain string) error {
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	if strings.TrimSpace(email) == "" {
		email = DefaultAdminEmail
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	_, err = db.Pool.Exec(ctx, `
		INSERT INTO admin_profile (id, email, name, password_hash, updated_at)
		VALUES (1, $1, $2, $3, now())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email, name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash, updated_at = now()`,
		email, name, hash,
	)
	return err
}

// GetAdminProfile returns the admin profile, or nil if none was set.
func GetAdminProfile(ctx context.Context) (*AdminProfile, error) {
	var p AdminProfile
	err := db.Pool.QueryRow(ctx, `SELECT email, name FROM admin_profile WHERE id = 1`).Scan(&p.Email, &p.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// VerifyAdminPassword checks plain against the stored admin hash.
func VerifyAdminPassword(ctx context.Context, plain string) error {
	var hash string
	err := db.Pool.QueryRow(ctx, `SELECT password_hash FROM admin_profile WHERE id = 1`).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoAdminProfile
		}
		return err
	}
	return CheckPassword(hash, plain)
}

// Each wrong password doubles the wait before the next attempt, starting at
// 2s and capped at maxLoginCooldown.
const maxLoginCooldown = 30 * time.Second

var ErrThrottled = errors.New("too many failed attempts, try again later")

func loginCooldown(fails int) time.Duration {
	if fails < 1 {
		return 0
	}
	if fails >= 5 {
		return maxLoginCooldown
	}
	return time.Second << fails
}

// secondsUntil rounds the remaining cooldown up to whole seconds.
func secondsUntil(until, now time.Time) int {
	if until.IsZero() || !now.Before(until) {
		return 0
	}
	return int((until.Sub(now) + time.Second - 1) / time.Second)
}

func loginWait(ctx context.Context, tgUserID int64, now time.Time) (int, error) {
	var until *time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT cooldown_until FROM login_throttle WHERE tg_user_id = $1`, tgUserID,
	).Scan(&until)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read login throttle: %w", err)
	}
	if until == nil {
		return 0, nil
	}
	return secondsUntil(*until, now), nil
}

// recordLoginFailure bumps the failure count and starts the next cooldown.
func recordLoginFailure(ctx context.Context, tgUserID int64, now time.Time) error {
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		var fails int
		err := tx.QueryRow(ctx, `
			INSERT INTO login_throttle (tg_user_id, fail_count, last_failed_at, updated_at)
			VALUES ($1, 1, $2, $2)
			ON CONFLICT (tg_user_id) DO UPDATE SET
				fail_count = login_throttle.fail_count + 1,
				last_failed_at = EXCLUDED.last_failed_at,
				updated_at = EXCLUDED.updated_at
			RETURNING fail_count`,
			tgUserID, now,
		).Scan(&fails)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE login_throttle SET cooldown_until = $2 WHERE tg_user_id = $1`,
			tgUserID, now.Add(loginCooldown(fails)))
		return err
	})
	if err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	return nil
}

func clearLoginFailures(ctx context.Context, tgUserID int64) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM login_throttle WHERE tg_user_id = $1`, tgUserID)
	return err
}

// AdminLogin verifies the password for tgUserID. While a cooldown from earlier
// failures is running it returns ErrThrottled and the seconds left to wait.
func AdminLogin(ctx context.Context, tgUserID int64, plain string) (wait int, err error) {
	return adminLogin(ctx, tgUserID, plain, time.Now())
}

func adminLogin(ctx context.Context, tgUserID int64, plain string, now time.Time) (int, error) {
	wait, err := loginWait(ctx, tgUserID, now)
	if err != nil {
		return 0, err
	}
	if wait > 0 {
		return wait, ErrThrottled
	}
	err = VerifyAdminPassword(ctx, plain)
	switch {
	case errors.Is(err, ErrInvalidPassword):
		if ferr := recordLoginFailure(ctx, tgUserID, now); ferr != nil {
			return 0, ferr
		}
		return 0, err
	case err != nil:
		return 0, err
	}
	return 0, clearLoginFailures(ctx, tgUserID)
}
