package api

import (
	"os"

	"github.com/redis/go-redis/v9"

	"campus-collective/agora/internal/common"
	"campus-collective/agora/internal/db"
	"campus-collective/agora/internal/db/repositories"
	"campus-collective/agora/internal/logging"
	"campus-collective/agora/internal/metrics"
	"campus-collective/agora/internal/qrcode"
	"campus-collective/agora/internal/services"
)

type Repositories struct {
	Events         *repositories.EventRepository
	Participations *repositories.ParticipationRepository
	EventTypes     *repositories.EventTypeRepository
	Users          *repositories.UserRepositoryGORM
	Ledger         *repositories.LedgerRepository
	Keys           *repositories.KeysRepo
}

type Services struct {
	Cache          common.CacheInterface
	Events         *services.EventService
	Participations *services.ParticipationService
	EventTypes     *services.EventTypeService
	Images         services.ImageStore
	Queue          *common.RedisQueueService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry

	// Redis is nil when REDIS_HOST is unset; the healthcheck and the jobs
	// status endpoint treat that as "not attached" rather than down.
	Redis *redis.Client
}

func InitDependencies(metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {

	repos := &Repositories{
		Events:         repositories.NewEventRepository(db.PgDB),
		Participations: repositories.NewParticipationRepository(db.PgDB),
		EventTypes:     repositories.NewEventTypeRepository(db.PgDB),
		Users:          repositories.NewUserRepositoryGORM(db.PgDB),
		Ledger:         repositories.NewLedgerRepository(db.PgDB),
		Keys:           repositories.NewApiKeysRepo(db.DB),
	}

	// Redis is optional. Without it the cache stays in-process and ledger
	// credits happen synchronously inside verify.
	var (
		redisClient *redis.Client
		cacheSvc    common.CacheInterface
		queueSvc    *common.RedisQueueService
	)
	if os.Getenv("REDIS_HOST") != "" {
		redisClient = common.NewRedisClient()
		cacheSvc = common.NewRedisCacheService(redisClient)
		queueSvc = common.NewRedisQueueService(redisClient)
	} else {
		cacheSvc = common.NewCacheService(300, 600)
		logging.Info("redis not configured; using in-process cache and synchronous ledger credits")
	}

	// The QR key is allowed to be absent: everything except QR operations
	// still works, and those fail with a configuration error.
	var cipher *qrcode.Cipher
	if key := os.Getenv("QR_ENCRYPTION_KEY"); key != "" {
		c, err := qrcode.NewCipher(key)
		if err != nil {
			return nil, err
		}
		cipher = c
	} else {
		logging.Warn("QR_ENCRYPTION_KEY not set; QR operations will fail until configured")
	}

	images, err := services.NewDiskImageStore(os.Getenv("IMAGE_STORE_DIR"), os.Getenv("PUBLIC_BASE_URL"))
	if err != nil {
		return nil, err
	}

	typeSvc := services.NewEventTypeService(repos.EventTypes, repos.Users, cacheSvc, metricsReg)
	eventSvc := services.NewEventService(repos.Events, repos.Participations, repos.Users, typeSvc, cipher, cacheSvc)

	var publisher services.AttendancePublisher
	if queueSvc != nil {
		publisher = queueSvc
	}
	partSvc := services.NewParticipationService(repos.Events, repos.Participations, repos.Ledger, cipher, publisher, metricsReg)

	svcs := &Services{
		Cache:          cacheSvc,
		Events:         eventSvc,
		Participations: partSvc,
		EventTypes:     typeSvc,
		Images:         images,
		Queue:          queueSvc,
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
		Metrics:  metricsReg,
		Redis:    redisClient,
	}, nil
}
