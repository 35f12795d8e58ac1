package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"blog-backend/internal/config"
	infraCache "blog-backend/internal/infrastructure/cache"
	"blog-backend/internal/infrastructure/database"
	"blog-backend/internal/infrastructure/storage"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"

	"blog-backend/internal/domains/category"
	categoryHandler "blog-backend/internal/domains/category/handler"
	categoryRepo "blog-backend/internal/domains/category/repository"
	categoryService "blog-backend/internal/domains/category/service"
	postHandler "blog-backend/internal/domains/post/handler"
	postRepo "blog-backend/internal/domains/post/repository"
	postService "blog-backend/internal/domains/post/service"
	"blog-backend/internal/domains/user"
	userHandler "blog-backend/internal/domains/user/handler"
	userRepo "blog-backend/internal/domains/user/repository"
	userService "blog-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is
// a singleton built once at startup, in dependency order.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache           // Redis; nil-tolerant consumers
	Storage    *storage.MinIOStorage // nil when object storage is unavailable
	JWTManager *jwt.Manager

	// ========================================
	// REPOSITORY LAYER (DATA ACCESS)
	// ========================================

	PostRepo     postRepo.PostRepository
	UserRepo     user.Repository
	CategoryRepo category.Repository

	// ========================================
	// SERVICE LAYER (BUSINESS LOGIC)
	// ========================================

	PostService     postService.ServiceInterface
	ImageService    *postService.ImageService // nil when Storage is nil
	UserService     user.Service
	CategoryService category.Service

	// ========================================
	// HANDLER LAYER (HTTP)
	// ========================================

	PostHandler     *postHandler.PostHandler
	UserHandler     *userHandler.UserHandler
	CategoryHandler *categoryHandler.CategoryHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer initializes the whole dependency graph.
// Order matters: config, then infrastructure, then repositories,
// services, handlers. Postgres is required; Redis and MinIO are
// optional and the app degrades without them.
func NewContainer() (*Container, error) {
	log.Println("[CONTAINER] Initializing...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("[CONTAINER] Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE (NON-CRITICAL)
	// ========================================
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// Connect is not part of the Cache interface
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Without Redis: no login throttle, refresh tokens
			// cannot be revoked before expiry. Still serviceable.
			log.Printf("[CONTAINER] Redis unavailable (non-critical): %v", err)
			redisCache = nil
		}
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: INITIALIZE OBJECT STORAGE (NON-CRITICAL)
	// ========================================
	minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		// Without MinIO the upload endpoint answers 503; posts
		// still accept externally hosted featured image URLs.
		log.Printf("[CONTAINER] MinIO unavailable (non-critical): %v", err)
		minioStorage = nil
	}
	c.Storage = minioStorage

	// ========================================
	// STEP 5: JWT MANAGER
	// ========================================
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	// ========================================
	// STEP 6: REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 7: SERVICES
	// ========================================
	c.initServices()

	// ========================================
	// STEP 8: HANDLERS
	// ========================================
	c.initHandlers()

	log.Println("[CONTAINER] Initialized successfully")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.PostRepo = postRepo.NewPostgresPostRepository(pool)
	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.CategoryRepo = categoryRepo.NewPostgresCategoryRepository(pool)
}

func (c *Container) initServices() {
	c.PostService = postService.NewPostService(c.PostRepo)

	if c.Storage != nil {
		c.ImageService = postService.NewImageService(c.Storage, storage.NewImageProcessor())
	}

	oauth := userService.NewOAuthProviders(c.Config.OAuth, c.Config.App.BaseURL)
	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.JWTManager,
		c.Cache,
		oauth,
	)

	c.CategoryService = categoryService.NewCategoryService(c.CategoryRepo)
}

func (c *Container) initHandlers() {
	c.PostHandler = postHandler.NewPostHandler(c.PostService, c.ImageService)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.CategoryHandler = categoryHandler.NewCategoryHandler(c.CategoryService)
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases infrastructure resources. Called from the server's
// graceful shutdown path.
func (c *Container) Cleanup() {
	log.Println("[CONTAINER] Cleaning up resources...")

	if c.DB != nil && c.DB.Pool != nil {
		c.DB.Pool.Close()
		log.Println("[CONTAINER] Database connections closed")
	}

	if c.Cache != nil {
		if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
			if err := rc.Close(); err != nil {
				log.Printf("[CONTAINER] Failed to close Redis: %v", err)
			} else {
				log.Println("[CONTAINER] Redis connections closed")
			}
		}
	}
}
