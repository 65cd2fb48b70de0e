package db

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is the stock sqlite3 driver with LOWER/UPPER replaced
// by Unicode-aware versions. The built-ins only fold ASCII.
const sqliteDriverName = "sqlite3_unicode"

func init() {
	sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			if err := conn.RegisterFunc("lower", strings.ToLower, true); err != nil {
				return err
			}
			return conn.RegisterFunc("upper", strings.ToUpper, true)
		},
	})
}

// SQLiteDialector opens dsn through the Unicode-aware sqlite driver.
func SQLiteDialector(dsn string) gorm.Dialector {
	return sqlite.New(sqlite.Config{
		DriverName: sqliteDriverName,
		DSN:        dsn,
	})
}
