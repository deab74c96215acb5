package database

import (
	"fmt"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
		// Duplicate-key violations must surface as gorm.ErrDuplicatedKey so
		// idempotent writers can absorb them.
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	return db, nil
}

// Migrate applies schema migrations and seeds the default tenant. Run on
// every start in debug mode; in release it is gated behind the -migrate flag.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.Franchise{},
		&model.User{},
		&model.Course{},
		&model.CourseSection{},
		&model.SectionItem{},
		&model.Enrollment{},
		&model.ItemCompletion{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizSubmission{},
		&model.Assignment{},
		&model.AssignmentSubmission{},
		&model.Certificate{},
		&model.Order{},
		&model.Ticket{},
		&model.TicketMessage{},
	)

	if err != nil {
		return err
	}

	log.Println("Database migration completed")

	// Default tenant so single-franchise deployments work out of the box.
	var count int64
	db.Model(&model.Franchise{}).Count(&count)
	if count == 0 {
		db.Create(&model.Franchise{
			Name:      "Default",
			Subdomain: "default",
			Active:    true,
		})
	}

	return nil
}
