package db

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"taskkeeper/internal/config"
)

const defaultParams = "parseTime=true&multiStatements=true"

// ConnectDB opens the MySQL pool backing the kv_store table. One blob is
// rewritten per save, so a small pool is enough.
func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	dsn, err := mysqlDSN(conf)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(3 * time.Minute)

	return db, nil
}

func mysqlDSN(conf *config.Config) (string, error) {
	params := conf.DbParams
	if params == "" {
		params = defaultParams
	}

	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s:%s)/%s?%s",
		conf.DbUser,
		conf.DbPassword,
		conf.DbHost,
		conf.DbPort,
		conf.DbName,
		params,
	)
	if _, err := mysql.ParseDSN(dsn); err != nil {
		return "", fmt.Errorf("invalid mysql dsn: %w", err)
	}
	return dsn, nil
}
