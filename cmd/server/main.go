package main

import (
	"context"
	"database/sql"
	"io/fs"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
	"github.com/goliatone/go-router"
	"github.com/spf13/viper"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	hivekeeper "github.com/apiarylab/hivekeeper"
	"github.com/apiarylab/hivekeeper/middleware/bearer"
)

// AppConfig is the auth configuration backed by viper.
type AppConfig struct {
	HTTPAddr        string `mapstructure:"HTTP_ADDR"`
	DatabaseDSN     string `mapstructure:"DATABASE_DSN"`
	SigningKey      string `mapstructure:"JWT_SIGNING_KEY"`
	TokenExpiration int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	Issuer          string `mapstructure:"JWT_ISSUER"`
	Audience        string `mapstructure:"JWT_AUDIENCE"`
	ContextKey      string `mapstructure:"AUTH_CONTEXT_KEY"`
	TokenLookup     string `mapstructure:"AUTH_TOKEN_LOOKUP"`
	AuthScheme      string `mapstructure:"AUTH_SCHEME"`
	HashTime        uint32 `mapstructure:"HASH_TIME"`
	HashMemory      uint32 `mapstructure:"HASH_MEMORY_KB"`
	HashThreads     uint8  `mapstructure:"HASH_THREADS"`
	HashWorkers     int    `mapstructure:"HASH_WORKERS"`
	CleanupInterval string `mapstructure:"SESSION_CLEANUP_INTERVAL"`
}

func (c *AppConfig) GetSigningKey() string     { return c.SigningKey }
func (c *AppConfig) GetTokenExpiration() int   { return c.TokenExpiration }
func (c *AppConfig) GetIssuer() string         { return c.Issuer }
func (c *AppConfig) GetContextKey() string     { return c.ContextKey }
func (c *AppConfig) GetTokenLookup() string    { return c.TokenLookup }
func (c *AppConfig) GetAuthScheme() string     { return c.AuthScheme }
func (c *AppConfig) GetHashTime() uint32       { return c.HashTime }
func (c *AppConfig) GetHashMemory() uint32     { return c.HashMemory }
func (c *AppConfig) GetHashThreads() uint8     { return c.HashThreads }

func (c *AppConfig) GetAudience() []string {
	if c.Audience == "" {
		return nil
	}
	return []string{c.Audience}
}

func (c *AppConfig) GetCleanupInterval() time.Duration {
	d, err := time.ParseDuration(c.CleanupInterval)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// loadConfig reads .env (if present) and the environment. The signing key
// has no default; the server refuses to boot without one.
func loadConfig() (*AppConfig, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_DSN", "file:hivekeeper.db?cache=shared&mode=rwc")
	v.SetDefault("JWT_EXPIRATION_HOURS", hivekeeper.DefaultTokenExpiration)
	v.SetDefault("JWT_ISSUER", "hivekeeper")
	v.SetDefault("JWT_AUDIENCE", "")
	v.SetDefault("AUTH_CONTEXT_KEY", "user")
	v.SetDefault("AUTH_TOKEN_LOOKUP", "header:"+router.HeaderAuthorization)
	v.SetDefault("AUTH_SCHEME", "Bearer")
	v.SetDefault("HASH_TIME", 1)
	v.SetDefault("HASH_MEMORY_KB", 64*1024)
	v.SetDefault("HASH_THREADS", 4)
	v.SetDefault("HASH_WORKERS", 4)
	v.SetDefault("SESSION_CLEANUP_INTERVAL", "1h")

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.SigningKey == "" {
		return nil, goerrors.New("JWT_SIGNING_KEY must be set", goerrors.CategoryBadInput)
	}

	return &cfg, nil
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("hivekeeper"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(goerrors.ToSlogAttributes),
	)

	if err := run(lgr); err != nil {
		lgr.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(lgr *glog.BaseLogger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open database")
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(ctx, db, lgr.GetLogger("migrations")); err != nil {
		return err
	}

	repo := hivekeeper.NewRepositoryManager(db)
	repo.MustValidate()

	hasher, err := hivekeeper.NewHasher(cfg.GetHashTime(), cfg.GetHashMemory(), cfg.GetHashThreads())
	if err != nil {
		return err
	}
	hasher.WithLogger(lgr.GetLogger("hasher"))

	pool := hivekeeper.NewHashPool(hasher, cfg.HashWorkers, cfg.HashWorkers*2)
	defer pool.Close()

	provider := hivekeeper.NewUserProvider(repo.Users(), pool).
		WithLogger(lgr.GetLogger("provider"))

	auther := hivekeeper.NewAuthenticator(provider, repo.Sessions(), cfg).
		WithLogger(lgr.GetLogger("auth"))

	registrar := hivekeeper.NewRegisterUserHandler(repo, pool)

	authController := hivekeeper.NewAuthController(
		hivekeeper.WithControllerLogger(lgr.GetLogger("http.auth")),
		hivekeeper.WithRepositoryManager(repo),
		hivekeeper.WithAuthenticator(auther),
		hivekeeper.WithRegistrar(registrar),
	)

	resourceController := hivekeeper.NewResourceController(repo).
		WithLogger(lgr.GetLogger("http.resources"))

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			UnescapePath:  true,
			StrictRouting: false,
		}))
	})

	srv.Router().WithLogger(lgr.GetLogger("router"))

	gateCfg := hivekeeper.ProtectedRoute(cfg, auther.TokenService(), repo.Sessions())
	gateCfg.RawTokenKey = hivekeeper.RawTokenKey
	protected := bearer.New(gateCfg)

	hivekeeper.RegisterAuthRoutes(srv.Router().Group("/"), authController, protected)
	hivekeeper.RegisterResourceRoutes(srv.Router().Group("/"), resourceController, protected)

	go sessionCleanupLoop(ctx, repo.Sessions(), cfg.GetCleanupInterval(), lgr.GetLogger("sessions"))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown error", "error", err)
		}
	}()

	lgr.Info("starting server", "addr", cfg.HTTPAddr)
	return srv.Serve(cfg.HTTPAddr)
}

// runMigrations executes the embedded schema files in lexical order. Every
// statement is idempotent so reruns are safe.
func runMigrations(ctx context.Context, db *bun.DB, lgr glog.Logger) error {
	migrations := hivekeeper.GetMigrationsFS()

	var files []string
	err := fs.WalkDir(migrations, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migrations")
	}

	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations, file)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migration "+file)
		}

		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to apply migration "+file)
		}

		lgr.Debug("applied migration", "file", file)
	}

	return nil
}

// sessionCleanupLoop periodically deletes expired session rows. Revocation
// does not depend on it; this only keeps the table from growing unbounded.
func sessionCleanupLoop(ctx context.Context, sessions hivekeeper.Sessions, interval time.Duration, lgr glog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := sessions.Cleanup(ctx)
			if err != nil {
				lgr.Error("session cleanup failed", "error", err)
				continue
			}
			if count > 0 {
				lgr.Info("session cleanup removed expired rows", "count", count)
			}
		}
	}
}
