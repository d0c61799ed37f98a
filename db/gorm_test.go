package db

import (
	"context"
	"testing"

	"discogsapi/config"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	cfg := &config.Config{
		DBUser:     "svc",
		DBPassword: "p@ss:word",
		DBHost:     "db.internal",
		DBPort:     "3307",
		DBName:     "discogs",
	}

	parsed, err := mysqldriver.ParseDSN(MySQLDSN(cfg))
	require.NoError(t, err)

	assert.Equal(t, "svc", parsed.User)
	assert.Equal(t, "p@ss:word", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "discogs", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "mongo"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestOpen_SQLiteMigrateAndPing(t *testing.T) {
	gdb, err := Open(&config.Config{DBDriver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, AutoMigrate(gdb))
	assert.True(t, gdb.Migrator().HasTable("tracks"))
	assert.NoError(t, GormPinger{DB: gdb}.Ping(context.Background()))
}
