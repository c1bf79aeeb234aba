package db

import (
	"context"
	"database/sql"
	"fmt"
)

type QueryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NullIfEmpty stores optional strings as NULL.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullIfZero stores optional foreign keys as NULL.
func NullIfZero(n int64) any {
	if n == 0 {
		return nil
	}
	return n
}

func HasTable(q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRow(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

func HasColumn(q QueryRower, table, column string) bool {
	var name sql.NullString
	err := q.QueryRow(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND column_name = ?
		LIMIT 1
	`, table, column).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// Tables lists the job board tables in creation order.
var Tables = []string{"provinces", "districts", "industries", "users", "employers", "jobs", "applications"}

var ddl = map[string]string{
	"provinces": `CREATE TABLE IF NOT EXISTS provinces (
		id BIGINT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	"districts": `CREATE TABLE IF NOT EXISTS districts (
		id BIGINT PRIMARY KEY,
		province_id BIGINT NOT NULL,
		name VARCHAR(120) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		KEY idx_districts_province (province_id),
		CONSTRAINT fk_districts_province FOREIGN KEY (province_id) REFERENCES provinces(id)
	)`,
	"industries": `CREATE TABLE IF NOT EXISTS industries (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_industries_name (name)
	)`,
	"users": `CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		full_name VARCHAR(120) NOT NULL,
		email VARCHAR(160) NOT NULL,
		phone VARCHAR(20) NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'active',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_users_email (email)
	)`,
	"employers": `CREATE TABLE IF NOT EXISTS employers (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(160) NOT NULL,
		email VARCHAR(160) NOT NULL,
		phone VARCHAR(20) NULL,
		website VARCHAR(255) NULL,
		address VARCHAR(255) NULL,
		description TEXT NULL,
		province_id BIGINT NOT NULL,
		district_id BIGINT NOT NULL,
		industry_id BIGINT NOT NULL,
		logo_path VARCHAR(255) NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_employers_email (email)
	)`,
	"jobs": `CREATE TABLE IF NOT EXISTS jobs (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		employer_id BIGINT NOT NULL,
		title VARCHAR(200) NOT NULL,
		description TEXT NOT NULL,
		job_type VARCHAR(20) NOT NULL,
		salary_min BIGINT NOT NULL DEFAULT 0,
		salary_max BIGINT NOT NULL DEFAULT 0,
		province_id BIGINT NOT NULL,
		district_id BIGINT NOT NULL,
		industry_id BIGINT NOT NULL,
		deadline DATE NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'open',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_jobs_employer (employer_id)
	)`,
	"applications": `CREATE TABLE IF NOT EXISTS applications (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		job_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		full_name VARCHAR(120) NOT NULL,
		email VARCHAR(160) NOT NULL,
		phone VARCHAR(20) NULL,
		cover_letter TEXT NULL,
		cv_path VARCHAR(255) NULL,
		cv_link VARCHAR(500) NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_applications_job_user (job_id, user_id),
		KEY idx_applications_user (user_id)
	)`,
}

// EnsureSchema creates missing tables. Existing tables are left alone.
func EnsureSchema(ctx context.Context, db Execer) error {
	for _, table := range Tables {
		if _, err := db.ExecContext(ctx, ddl[table]); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}
