package postgres

import (
	stderrors "errors"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source driver

	"github.com/turtacn/TalentScreen/pkg/errors"
)

// RunMigrations applies all pending migrations from sourceURL (typically
// "file://migrations") to the database at dbURL.  Already being up to date
// is not an error.
func RunMigrations(dbURL, sourceURL string) error {
	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migrate instance creation failed")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migration run failed")
	}
	return nil
}

// RollbackMigrations reverts the last steps migrations.
func RollbackMigrations(dbURL, sourceURL string, steps int) error {
	if steps <= 0 {
		return errors.Newf(errors.ErrCodeValidation, "rollback steps must be positive, got %d", steps)
	}

	m, err := migrate.New(sourceURL, dbURL)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migrate instance creation failed")
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "migration rollback failed")
	}
	return nil
}
