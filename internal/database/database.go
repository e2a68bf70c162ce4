package database

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"paradise-vista/configs"
	"paradise-vista/internal/logger"
	"paradise-vista/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type DBManager struct {
	WriteDB     *gorm.DB
	ReadDBs     []*gorm.DB
	currentRead int
	readMutex   sync.Mutex
}

var (
	instance *DBManager
	once     sync.Once
)

// GetDBManager connects to the configured store once and migrates the schema.
func GetDBManager() *DBManager {
	once.Do(func() {
		m, err := Connect(configs.AppConfig.DatabaseURL, configs.AppConfig.ReadDatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", "error", err)
		}
		instance = m
	})
	return instance
}

// Dialector picks the gorm driver from the DSN: postgres URLs go to the postgres
// driver, anything else is treated as a MySQL DSN.
func Dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn)
	}
	return mysql.Open(dsn)
}

func Connect(writeDSN, readDSN string) (*DBManager, error) {
	write := Dialector(writeDSN)
	var reads []gorm.Dialector
	if readDSN != "" {
		reads = append(reads, Dialector(readDSN))
	}
	return Open(write, reads...)
}

// Open builds a manager over already-chosen dialectors. Read replicas that fail to
// connect are skipped and reads fall back to the write connection.
func Open(write gorm.Dialector, reads ...gorm.Dialector) (*DBManager, error) {
	gormCfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	}

	writeDB, err := gorm.Open(write, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect write database: %w", err)
	}

	if err := writeDB.AutoMigrate(models.All()...); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if sqlDB, err := writeDB.DB(); err == nil {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	m := &DBManager{WriteDB: writeDB, ReadDBs: make([]*gorm.DB, 0, len(reads))}
	for i, d := range reads {
		readDB, err := gorm.Open(d, gormCfg)
		if err != nil {
			logger.Warn("failed to connect to read replica", "replica", i, "error", err)
			continue
		}
		m.ReadDBs = append(m.ReadDBs, readDB)
	}

	logger.Info("database connection established", "read_replicas", len(m.ReadDBs))
	return m, nil
}

// GetReadDB returns a read replica using round-robin
func (m *DBManager) GetReadDB() *gorm.DB {
	m.readMutex.Lock()
	defer m.readMutex.Unlock()

	if len(m.ReadDBs) == 0 {
		return m.WriteDB
	}

	db := m.ReadDBs[m.currentRead]
	m.currentRead = (m.currentRead + 1) % len(m.ReadDBs)
	return db
}

func (m *DBManager) Ping() error {
	sqlDB, err := m.WriteDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (m *DBManager) Close() error {
	for _, db := range append([]*gorm.DB{m.WriteDB}, m.ReadDBs...) {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return nil
}
