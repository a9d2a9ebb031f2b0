package pipeline

import (
	"context"
	"database/sql/driver"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var rawHeader = []string{
	"ORDERNUMBER", "QUANTITYORDERED", "PRICEEACH", "ORDERLINENUMBER", "SALES", "ORDERDATE",
	"STATUS", "QTR_ID", "MONTH_ID", "YEAR_ID", "PRODUCTLINE", "MSRP", "PRODUCTCODE",
	"CUSTOMERNAME", "PHONE", "ADDRESSLINE1", "ADDRESSLINE2", "CITY", "STATE", "POSTALCODE",
	"COUNTRY", "TERRITORY", "CONTACTLASTNAME", "CONTACTFIRSTNAME", "DEALSIZE",
}

func rawRecord(date string) []string {
	return []string{
		"10107", "30", "95.7", "2", "2871", date,
		"Shipped", "1", "2", "2003", "Motorcycles", "95", "S10_1678",
		"Land of Toys Inc.", "2125557818", "897 Long Airport Avenue", "", "NYC", "NY", "10022",
		"USA", "NA", "Yu", "Kwai", "Small",
	}
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return gormDB, mock
}

func mockRows() *sqlmock.Rows {
	rows := sqlmock.NewRows(rawHeader)
	for _, date := range []string{"2/24/2003 0:00", "12/1/2004 0:00"} {
		rec := rawRecord(date)
		values := make([]driver.Value, len(rec))
		for i, v := range rec {
			values[i] = []byte(v)
		}
		values[16] = nil
		rows.AddRow(values...)
	}
	return rows
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2/24/2003 0:00", "2003-02-24"},
		{"12/1/2004", "2004-12-01"},
		{"", ""},
	}
	for _, tt := range tests {
		got, err := NormalizeDate(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := NormalizeDate("2003-02-24")
	assert.Error(t, err)
}

func TestTransform(t *testing.T) {
	in := &Dataset{Header: rawHeader, Records: [][]string{rawRecord("2/24/2003 0:00")}}

	out, err := Transform(in)
	require.NoError(t, err)

	assert.Equal(t, CanonicalColumns, out.Header)
	require.Equal(t, 1, out.Len())
	row := out.Records[0]
	assert.Len(t, row, 21)
	assert.Equal(t, "10107", row[0])
	assert.Equal(t, "2003-02-24", row[5])
	assert.Equal(t, "897 Long Airport Avenue", row[15])
	assert.Equal(t, "NYC", row[16])
	assert.Equal(t, "USA", row[17])
	assert.Equal(t, "Small", row[20])

	// input untouched
	assert.Equal(t, "2/24/2003 0:00", in.Records[0][5])
}

func TestTransform_ColumnCountMismatch(t *testing.T) {
	_, err := Transform(&Dataset{Header: []string{"ORDERNUMBER", "STATE"}})
	assert.ErrorContains(t, err, "expected 21 columns after dropping, got 1")
}

func TestTransform_BadDate(t *testing.T) {
	_, err := Transform(&Dataset{Header: rawHeader, Records: [][]string{rawRecord("yesterday")}})
	assert.ErrorContains(t, err, "record 1")
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	ds := &Dataset{Header: []string{"a", "b"}, Records: [][]string{{"1", "x,y"}, {"2", ""}}}

	require.NoError(t, WriteCSV(path, ds))
	back, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, ds, back)
}

func TestReadCSV_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := ReadCSV(path)
	assert.ErrorContains(t, err, "is empty")
}

func TestExtract(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `sales_data`").WillReturnRows(mockRows())

	ds, err := Extract(context.Background(), db, "sales_data")
	require.NoError(t, err)

	assert.Equal(t, rawHeader, ds.Header)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "10107", ds.Records[0][0])
	assert.Equal(t, "", ds.Records[0][16])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Run(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `sales_data`").WillReturnRows(mockRows())

	dir := t.TempDir()
	cfg := Config{
		RawDir:       filepath.Join(dir, "raw"),
		ProcessedDir: filepath.Join(dir, "processed"),
		FileName:     "sales_data.csv",
	}
	svc := NewService(db, "sales_data", cfg, zap.NewNop())

	res, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, filepath.Join(dir, "raw", "sales_data.csv"), res.RawPath)

	processed, err := ReadCSV(res.ProcessedPath)
	require.NoError(t, err)
	assert.Equal(t, CanonicalColumns, processed.Header)
	assert.Equal(t, "2004-12-01", processed.Records[1][5])

	raw, err := ReadCSV(res.RawPath)
	require.NoError(t, err)
	assert.Len(t, raw.Header, 25)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_NoDatabase(t *testing.T) {
	svc := NewService(nil, "sales_data", Config{}, zap.NewNop())
	_, err := svc.Run(context.Background())
	assert.EqualError(t, err, "database not connected")
}
