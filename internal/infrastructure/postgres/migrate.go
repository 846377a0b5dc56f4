package postgres

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/jhoicas/Tienda-api/pkg/config"
)

// RunMigrations aplica las migraciones pendientes del directorio indicado.
// ErrNoChange no es un fallo: significa esquema al día.
func RunMigrations(cfg config.DBConfig, migrationsPath string) error {
	m, err := migrate.New("file://"+migrationsPath, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("crear instancia de migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("aplicar migraciones: %w", err)
	}
	return nil
}
