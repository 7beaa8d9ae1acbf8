package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-trip-sync/internal/logger"
	"github.com/MKhiriev/go-trip-sync/models"
	"github.com/jackc/pgerrcode"
)

// userRepository stores accounts in the "users" table. Logins are kept
// trimmed and lower-cased, so "Bob" and "bob " name the same account both
// at sign-in and when a checklist is shared.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a PostgreSQL backed [UserRepository].
//
// Parameters:
//   - db: the PostgreSQL connection wrapper.
//   - logger: structured logger used for diagnostic output.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func normalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}

// CreateUser inserts the account and returns it with UserID and CreatedAt
// filled in. A taken login yields [ErrLoginAlreadyExists].
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	login := normalizeLogin(user.Login)

	var created models.User
	err := r.db.QueryRowContext(ctx, createUser, login, user.PasswordHash).
		Scan(&created.UserID, &created.Login, &created.PasswordHash, &created.CreatedAt)

	switch {
	case err == nil:
		return created, nil
	case postgresError(err) == pgerrcode.UniqueViolation:
		log.Debug().Str("func", "*userRepository.CreateUser").Str("login", login).Msg("login is taken")
		return models.User{}, ErrLoginAlreadyExists
	default:
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error inserting user")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
}

// FindUserByLogin returns the account registered under login, or
// [ErrNoUserWasFound].
func (r *userRepository) FindUserByLogin(ctx context.Context, login string) (models.User, error) {
	return findUserByLoginWith(ctx, r.db, login)
}

// queryRower is satisfied by both *sql.DB and *sql.Tx.
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func findUserByLoginWith(ctx context.Context, q queryRower, login string) (models.User, error) {
	login = normalizeLogin(login)

	var found models.User
	err := q.QueryRowContext(ctx, findUserByLogin, login).
		Scan(&found.UserID, &found.Login, &found.PasswordHash, &found.CreatedAt)

	switch {
	case err == nil:
		return found, nil
	case errors.Is(err, sql.ErrNoRows):
		return models.User{}, ErrNoUserWasFound
	default:
		logger.FromContext(ctx).Err(err).Str("func", "findUserByLoginWith").Str("login", login).Msg("error finding user by login")
		return models.User{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
}
