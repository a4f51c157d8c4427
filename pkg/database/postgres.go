package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectPostgres 连接到 PostgreSQL 数据库
// dsn: "host=localhost user=gorm password=gorm dbname=gorm port=9920 sslmode=disable"
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info), // 打印 SQL 语句方便调试
		TranslateError: true,                                // 唯一索引冲突翻译成 gorm.ErrDuplicatedKey，重试逻辑依赖它
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接到数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 连接池配置
	sqlDB.SetMaxIdleConns(10)           // 空闲连接数
	sqlDB.SetMaxOpenConns(100)          // 最大连接数
	sqlDB.SetConnMaxLifetime(time.Hour) // 连接最大存活时间

	log.Println("PostgreSQL 连接成功")
	return db, nil
}
