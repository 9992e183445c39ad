// Package repository реализует хранилище абонентского учёта на основе
// PostgreSQL: абоненты, тарифы, контракты, счета и платежи. Единственный
// писатель и читатель сохранённого состояния. Ошибки отсутствия строки
// переводятся в типизированные ошибки пакета errs, остальные ошибки
// драйвера помечаются как ошибки хранилища.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/isp-billing/internal/errs"
)

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB *sql.DB
}

// New создаёт пул соединений к PostgreSQL с ограничением размера
// и проверяет доступность базы.
func New(storageConnectionString string, maxOpenConns int) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'invoices'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table invoices missing or query error: %w", err)
	}
	return nil
}

// isForeignKeyViolation сообщает, вызвана ли ошибка ограничением внешнего ключа.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

// restrictDelete переводит нарушение внешнего ключа при удалении
// в нарушение бизнес-правила: сущность с зависимыми записями не удаляется.
func restrictDelete(op, entity string, id int, err error) error {
	if isForeignKeyViolation(err) {
		return &errs.RuleViolation{
			Rule:   errs.RuleHasDependents,
			Detail: fmt.Sprintf("%s %d has dependent records", entity, id),
		}
	}
	return errs.Store(op, err)
}
