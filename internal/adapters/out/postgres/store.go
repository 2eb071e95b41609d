package postgres

import (
	"fmt"

	"dispatch/internal/adapters/out/postgres/directoryrepo"
	"dispatch/internal/adapters/out/postgres/notificationrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/trackrepo"

	"github.com/sirupsen/logrus"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config describes the database connection.
type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Open connects with duplicate-key errors translated to gorm.ErrDuplicatedKey
// and GORM's own logging routed into log.
func Open(dsn string, log logrus.FieldLogger) (*gorm.DB, error) {
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log, logger.Config{
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table of the dispatcher.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.ChangeDTO{},
		&trackrepo.SampleDTO{},
		&directoryrepo.PartnerDTO{},
		&directoryrepo.ShopDTO{},
		&notificationrepo.NotificationDTO{},
	)
}

// Stores are the non-transactional views of every repository.
type Stores struct {
	Orders        *orderrepo.GormOrderStore
	Tracks        *trackrepo.GormTrackRepository
	Partners      *directoryrepo.GormPartnerDirectory
	Shops         *directoryrepo.GormShopDirectory
	Notifications *notificationrepo.GormNotificationRepository
}

func NewStores(db *gorm.DB) Stores {
	return Stores{
		Orders:        orderrepo.NewGormOrderStore(db),
		Tracks:        trackrepo.NewGormTrackRepository(db),
		Partners:      directoryrepo.NewGormPartnerDirectory(db),
		Shops:         directoryrepo.NewGormShopDirectory(db),
		Notifications: notificationrepo.NewGormNotificationRepository(db),
	}
}
