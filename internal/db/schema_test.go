package db

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEnsureSchemaCreatesEveryTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	for _, table := range Tables {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + table + " ").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("EnsureSchema returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS provinces").WillReturnError(errors.New("denied"))

	if err := EnsureSchema(context.Background(), db); err == nil {
		t.Fatalf("expected error")
	}
}

func TestHasTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("jobs").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("jobs"))
	mock.ExpectQuery("information_schema\\.columns").WithArgs("jobs", "salary_max").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}))

	if !HasTable(db, "jobs") {
		t.Fatalf("expected jobs table")
	}
	if HasColumn(db, "jobs", "salary_max") {
		t.Fatalf("expected missing column")
	}
}
