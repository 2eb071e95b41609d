package cmd

import (
	"errors"
	"fmt"
	"time"

	httpin "dispatch/internal/adapters/in/http"
	kafkain "dispatch/internal/adapters/in/kafka"
	kafkaout "dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/broadcast"
	"dispatch/internal/core/application/coordinator"
	"dispatch/internal/core/application/notify"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/pkg/logging"
	"dispatch/internal/pkg/metrics"

	"github.com/IBM/sarama"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// stores is the set of repositories the rest of the root is built on,
// whichever driver backs them.
type stores struct {
	uowFactory    ports.UnitOfWorkFactory
	orders        ports.OrderStore
	tracks        ports.TrackRepository
	partners      ports.PartnerDirectory
	shops         ports.ShopDirectory
	notifications ports.NotificationRepository
}

type CompositionRoot struct {
	cfg      Config
	log      *logrus.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	gormDB   *gorm.DB
	stores   stores
	producer sarama.SyncProducer
	matcher  services.GeospatialMatcher

	broadcaster *broadcast.Broadcaster
	notifier    *notify.Dispatcher
	coordinator *coordinator.Coordinator
}

func NewCompositionRoot(cfg Config, log *logrus.Logger) (*CompositionRoot, error) {
	trigger, err := coordinator.ParseTrigger(cfg.DispatchTrigger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c := &CompositionRoot{
		cfg:      cfg,
		log:      log,
		registry: registry,
		metrics:  metrics.New(registry),
		matcher:  services.NewGeospatialMatcher(),
	}

	if err = c.openStores(); err != nil {
		return nil, err
	}

	publisher, err := c.eventPublisher()
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.broadcaster = broadcast.New(c.component("broadcaster"), c.metrics, time.Now)
	c.notifier = notify.NewDispatcher(
		c.stores.notifications, c.component("notifier"), c.metrics, cfg.NotifyCooldown, time.Now,
	)

	c.coordinator, err = coordinator.New(coordinator.Config{
		ShopRadiusKm:     cfg.ShopRadiusKm,
		DispatchRadiusKm: cfg.DispatchRadiusKm,
		Trigger:          trigger,
	}, coordinator.Deps{
		UoWFactory:  c.stores.uowFactory,
		Orders:      c.stores.orders,
		Partners:    c.stores.partners,
		Publisher:   publisher,
		Broadcaster: c.broadcaster,
		Notifier:    c.notifier,
		Metrics:     c.metrics,
		Log:         c.component("coordinator"),
		Now:         time.Now,
	})
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

func (c *CompositionRoot) component(name string) *logrus.Entry {
	return logging.Component(c.log, name)
}

func (c *CompositionRoot) openStores() error {
	if c.cfg.StoreDriver == StoreDriverMemory {
		store := memory.NewStore()
		c.stores = stores{
			uowFactory:    memory.NewUnitOfWorkFactory(store),
			orders:        store.Orders,
			tracks:        store.Tracks,
			partners:      store.Partners,
			shops:         store.Shops,
			notifications: store.Notifications,
		}
		c.component("store").Warn("using in-memory store, data is lost on restart")
		return nil
	}

	dsn := postgres.Config{
		Host:     c.cfg.DBHost,
		Port:     c.cfg.DBPort,
		User:     c.cfg.DBUser,
		Password: c.cfg.DBPassword,
		Name:     c.cfg.DBName,
		SSLMode:  c.cfg.DBSslMode,
	}.DSN()

	db, err := postgres.Open(dsn, c.component("gorm"))
	if err != nil {
		return err
	}
	if err = postgres.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	pg := postgres.NewStores(db)
	c.gormDB = db
	c.stores = stores{
		uowFactory:    postgres.NewGormUnitOfWorkFactory(db),
		orders:        pg.Orders,
		tracks:        pg.Tracks,
		partners:      pg.Partners,
		shops:         pg.Shops,
		notifications: pg.Notifications,
	}
	return nil
}

func (c *CompositionRoot) eventPublisher() (ports.EventPublisher, error) {
	if len(c.cfg.KafkaBrokers) == 0 {
		c.component("publisher").Info("KAFKA_BROKERS not set, order events are not published")
		return kafkaout.NopPublisher{}, nil
	}

	producer, err := kafkaout.NewSyncProducer(c.cfg.KafkaBrokers)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	c.producer = producer
	return kafkaout.NewPublisher(producer, c.cfg.KafkaOrderEventsTopic, c.component("publisher")), nil
}

func (c *CompositionRoot) CreateUpsertPartnerCommandHandler() commands.UpsertPartnerCommandHandler {
	return commands.NewUpsertPartnerCommandHandler(c.stores.partners, time.Now)
}

func (c *CompositionRoot) CreateUpsertShopCommandHandler() commands.UpsertShopCommandHandler {
	return commands.NewUpsertShopCommandHandler(c.stores.shops)
}

func (c *CompositionRoot) CreateMarkNotificationReadCommandHandler() commands.MarkNotificationReadCommandHandler {
	return commands.NewMarkNotificationReadCommandHandler(c.stores.notifications)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.stores.orders)
}

func (c *CompositionRoot) CreateGetOrderTrackQueryHandler() queries.GetOrderTrackQueryHandler {
	return queries.NewGetOrderTrackQueryHandler(c.stores.orders, c.stores.tracks)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.stores.orders)
}

func (c *CompositionRoot) CreateGetNearbyShopsQueryHandler() queries.GetNearbyShopsQueryHandler {
	return queries.NewGetNearbyShopsQueryHandler(c.stores.shops, c.matcher)
}

func (c *CompositionRoot) CreateGetPartnerCandidatesQueryHandler() queries.GetPartnerCandidatesQueryHandler {
	return queries.NewGetPartnerCandidatesQueryHandler(c.stores.orders, c.stores.partners, c.matcher)
}

func (c *CompositionRoot) CreateListNotificationsQueryHandler() queries.ListNotificationsQueryHandler {
	return queries.NewListNotificationsQueryHandler(c.stores.notifications)
}

// CreateRouter wires every HTTP handler into the echo router.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpin.NewServer(httpin.Handlers{
		Coordinator:      c.coordinator,
		UpsertPartner:    c.CreateUpsertPartnerCommandHandler(),
		UpsertShop:       c.CreateUpsertShopCommandHandler(),
		MarkRead:         c.CreateMarkNotificationReadCommandHandler(),
		GetOrder:         c.CreateGetOrderQueryHandler(),
		GetOrderTrack:    c.CreateGetOrderTrackQueryHandler(),
		ListOrders:       c.CreateListOrdersQueryHandler(),
		NearbyShops:      c.CreateGetNearbyShopsQueryHandler(),
		Candidates:       c.CreateGetPartnerCandidatesQueryHandler(),
		ListNotification: c.CreateListNotificationsQueryHandler(),
	}, c.component("http"))

	return httpin.NewRouter(server, c.metrics, c.registry, c.component("http"))
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.Config{
			RedispatchSchedule: c.cfg.RedispatchSchedule,
			FeedRetention:      c.cfg.FeedRetention,
		},
		c.coordinator,
		c.broadcaster,
		c.notifier,
		c.component("jobs"),
	)
}

// CreateLocationConsumer returns nil when no location topic is configured.
func (c *CompositionRoot) CreateLocationConsumer() (*kafkain.Consumer, error) {
	if c.cfg.KafkaLocationTopic == "" {
		return nil, nil //nolint:nilnil // consumer is optional
	}

	group, err := kafkain.NewConsumerGroup(c.cfg.KafkaBrokers, c.cfg.KafkaConsumerGroup)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer group: %w", err)
	}

	log := c.component("location_consumer")
	handler := kafkain.NewLocationHandler(c.coordinator, log)
	return kafkain.NewConsumer(group, c.cfg.KafkaLocationTopic, handler, log), nil
}

// Close releases the producer and the database pool.
func (c *CompositionRoot) Close() error {
	var errs []error
	if c.producer != nil {
		errs = append(errs, c.producer.Close())
	}
	if c.gormDB != nil {
		if sqlDB, err := c.gormDB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
