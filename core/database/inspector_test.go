package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

var infoSchemaColumns = []string{"table_name", "column_name", "data_type", "ordinal_position", "is_nullable", "column_default"}

func TestInspector_FetchColumns_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows(infoSchemaColumns).
		AddRow("sales_data", "order_id", "int", 1, "NO", nil).
		AddRow("sales_data", "status", "varchar", 2, "YES", "Shipped").
		AddRow("customers", "id", "bigint", 1, "NO", nil)
	mock.ExpectQuery("FROM information_schema.columns").
		WithArgs("sales").
		WillReturnRows(rows)

	cols, err := NewInspector(db).FetchColumns(context.Background(), "sales", "sales")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, "sales_data", cols[0].Table)
	assert.Equal(t, "order_id", cols[0].Column)
	assert.Equal(t, "INT", cols[0].DataType)
	assert.False(t, cols[0].Nullable)
	assert.Nil(t, cols[0].Default)
	require.NotNil(t, cols[0].Ordinal)
	assert.Equal(t, 1, *cols[0].Ordinal)

	assert.True(t, cols[1].Nullable)
	require.NotNil(t, cols[1].Default)
	assert.Equal(t, "Shipped", *cols[1].Default)
	assert.Equal(t, 2, *cols[1].Ordinal)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInspector_FetchColumns_Error(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("FROM information_schema.columns").
		WillReturnError(errors.New("access denied"))

	_, err := NewInspector(db).FetchColumns(context.Background(), "sales", "sales")
	assert.ErrorContains(t, err, "access denied")
	assert.ErrorContains(t, err, "schema sales")
}

func TestInspector_FetchColumns_SQLite(t *testing.T) {
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	err = db.Exec("CREATE TABLE sales_data (order_id INTEGER PRIMARY KEY, status TEXT DEFAULT 'Shipped', price REAL NOT NULL)").Error
	require.NoError(t, err)

	cols, err := NewInspector(db).FetchColumns(context.Background(), "", "main")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	byName := map[string]int{}
	for i, c := range cols {
		byName[c.Column] = i
	}

	id := cols[byName["order_id"]]
	assert.Equal(t, "INTEGER", id.DataType)
	assert.False(t, id.Nullable)
	assert.Equal(t, 1, *id.Ordinal)

	status := cols[byName["status"]]
	assert.True(t, status.Nullable)
	require.NotNil(t, status.Default)
	assert.Equal(t, "'Shipped'", *status.Default)

	price := cols[byName["price"]]
	assert.False(t, price.Nullable)
	assert.Equal(t, 3, *price.Ordinal)
}
