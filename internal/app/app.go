package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"userapi/internal/auth"
	"userapi/internal/cache"
	"userapi/internal/config"
	"userapi/internal/logger"
	"userapi/internal/metrics"
	"userapi/internal/repo"
	"userapi/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type App struct {
	cfg    config.Config
	mongo  *mongo.Client
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
}

func New(cfg config.Config) (*App, error) {
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	a := &App{cfg: cfg}

	users, err := a.openStore()
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		a.redis = rdb
	}

	a.router = newRouter(cfg, users, newVerifier(cfg.Auth, a.redis))
	logger.Log.Info().
		Str("store", cfg.Store.Driver).
		Bool("redis", a.redis != nil).
		Msg("app wired")
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		a.db.Close()
	}
	if a.mongo != nil {
		errs = append(errs, a.mongo.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

func (a *App) openStore() (repo.UserRepo, error) {
	switch a.cfg.Store.Driver {
	case config.StoreMongo:
		client, err := newMongo(a.cfg.Mongo)
		if err != nil {
			return nil, err
		}
		a.mongo = client
		coll := client.Database(a.cfg.Mongo.Database).Collection(a.cfg.Mongo.Collection)
		return repo.NewMongoUserRepo(coll), nil
	case config.StorePostgres:
		db, err := newPostgres(a.cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		a.db = db
		if err := runMigrations(a.cfg.PG.DSN); err != nil {
			db.Close()
			a.db = nil
			return nil, err
		}
		return repo.NewPGUserRepo(db), nil
	case config.StoreMemory:
		logger.Log.Warn().Msg("memory store: users are lost on restart")
		return repo.NewMemoryUserRepo(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", a.cfg.Store.Driver)
	}
}

func newMongo(cfg config.MongoConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout.Duration())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	opt, err := cfg.Options()
	if err != nil {
		return nil, fmt.Errorf("redis options: %w", err)
	}
	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

// runMigrations applies the embedded goose migrations.
func runMigrations(dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

// newVerifier builds the token check from config. Config validation guarantees
// at least one of JWKS URL and HS256 secret.
func newVerifier(cfg config.AuthConfig, rdb *redis.Client) auth.TokenVerifier {
	var chain auth.ChainVerifier
	if cfg.JWKSURL != "" {
		opt := auth.JWKSOptions{
			URL:        cfg.JWKSURL,
			Issuer:     cfg.Issuer,
			MinRefresh: cfg.JWKSMinRefresh.Duration(),
		}
		if rdb != nil {
			opt.Store = cache.NewKeySetCache(rdb, cfg.JWKSTTL.Duration())
		}
		chain = append(chain, auth.NewJWKSVerifier(opt))
	}
	if cfg.HS256Secret != "" {
		chain = append(chain, auth.NewHS256Verifier(cfg.HS256Secret, cfg.Issuer))
	}
	if len(chain) == 1 {
		return chain[0]
	}
	return chain
}

func newRouter(cfg config.Config, users repo.UserRepo, verifier auth.TokenVerifier) *gin.Engine {
	r := gin.New()
	// Every request, including near-misses like "/users/", goes through the gate.
	r.RedirectTrailingSlash = false

	r.Use(requestID(), accessLog(), gin.Recovery(), metrics.Middleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Type", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, users, verifier)
	return r
}
