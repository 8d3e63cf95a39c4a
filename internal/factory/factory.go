package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/irisgate/irisgate/internal/dependencies/clock"
	"github.com/irisgate/irisgate/internal/dependencies/random"
	"github.com/irisgate/irisgate/internal/iris"
	"github.com/irisgate/irisgate/internal/services/attendance"
	"github.com/irisgate/irisgate/internal/services/auth"
	"github.com/irisgate/irisgate/internal/services/enrollment"
	"github.com/irisgate/irisgate/internal/services/identity"
	"github.com/irisgate/irisgate/internal/services/liveness"
	"github.com/irisgate/irisgate/internal/services/verification"
	"github.com/irisgate/irisgate/internal/storage"
	"github.com/irisgate/irisgate/internal/storage/memory"
	redisstorage "github.com/irisgate/irisgate/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	IrisEngine             *iris.Engine
	IdentityService        *identity.Service
	LivenessDetector       *liveness.Detector
	AttendanceService      *attendance.Service
	EnrollmentService      *enrollment.Service
	AuthService            *auth.Service
	VerificationController *verification.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// IdentityConfig holds the face matching tolerance (optional)
	// If zero value, defaults to identity.DefaultConfig()
	IdentityConfig identity.Config
	// LivenessConfig holds the blink detection parameters (optional)
	// If zero value, defaults to liveness.DefaultConfig()
	LivenessConfig liveness.Config
	// VerificationConfig holds the state machine timings (optional)
	// If zero value, defaults to verification.DefaultConfig()
	VerificationConfig verification.Config
	// AuthConfig holds the operator key settings (optional)
	// A zero value leaves authentication disabled
	AuthConfig auth.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	// Fill defaulted configs
	identityCfg := cfg.IdentityConfig
	if identityCfg.Tolerance == 0 {
		identityCfg = identity.DefaultConfig()
	}
	livenessCfg := cfg.LivenessConfig
	if livenessCfg.EARThreshold == 0 {
		livenessCfg = liveness.DefaultConfig()
	}
	verificationCfg := cfg.VerificationConfig
	if verificationCfg.LivenessTimeout == 0 {
		verificationCfg = verification.DefaultConfig()
	}

	return newWithDependencies(store, clock.New(), random.New(), identityCfg, livenessCfg, verificationCfg, cfg.AuthConfig, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	identityCfg identity.Config,
	livenessCfg liveness.Config,
	verificationCfg verification.Config,
	authCfg auth.Config,
	logger *slog.Logger,
) (*App, error) {
	engine := iris.NewDefaultEngine()
	identityService := identity.New(identityCfg)
	livenessDetector := liveness.New(livenessCfg)
	attendanceService := attendance.New(store, clk, logger)
	enrollmentService := enrollment.New(store, engine, clk, logger)
	verificationController := verification.NewController(
		store, identityService, livenessDetector, attendanceService, clk, rnd, verificationCfg, logger,
	)

	authService, err := auth.New(clk, authCfg)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage:                store,
		Clock:                  clk,
		Random:                 rnd,
		IrisEngine:             engine,
		IdentityService:        identityService,
		LivenessDetector:       livenessDetector,
		AttendanceService:      attendanceService,
		EnrollmentService:      enrollmentService,
		AuthService:            authService,
		VerificationController: verificationController,
	}, nil
}
