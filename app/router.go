package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"faithconnect/community-api/app/auth"
	"faithconnect/community-api/app/post"
	"faithconnect/community-api/app/prayer"
	"faithconnect/community-api/app/root"
	"faithconnect/community-api/db"
	"faithconnect/community-api/internal"
	"faithconnect/community-api/internal/service"
	"faithconnect/community-api/pkg/middleware"
	"faithconnect/community-api/pkg/security"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"

	maxBodySize = 1 << 20
)

type Options struct {
	CORSOrigins []string
	// RateLimit is requests per second per client IP, 0 disables it
	RateLimit int
	Turnstile middleware.TurnstileConfig
}

// NewRouter builds every dependency from the loaded config and returns the
// ready to serve engine. Background work stops when ctx is done.
func NewRouter(ctx context.Context) (*gin.Engine, error) {
	conn, err := db.New(db.Options{
		Driver: viper.GetString("db.driver"),
		DSN:    viper.GetString("db.dsn"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	tokens, err := security.NewTokenIssuer(viper.GetString("jwt.secret"), viper.GetDuration("jwt.ttl"))
	if err != nil {
		return nil, err
	}

	mailer, err := service.NewSMTPMailer(service.SMTPConfig{
		Host:      viper.GetString("mail.host"),
		Port:      viper.GetInt("mail.port"),
		Username:  viper.GetString("mail.username"),
		Password:  viper.GetString("mail.password"),
		From:      viper.GetString("mail.sender_address"),
		PublicURL: viper.GetString("host.public_url"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer, %w", err)
	}

	d, err := internal.NewDeps(conn, internal.DepsOptions{
		Argon:           security.New(),
		Tokens:          tokens,
		Mailer:          mailer,
		VerificationTTL: viper.GetDuration("auth.verification_ttl"),
	})
	if err != nil {
		return nil, err
	}

	go service.AccountCleanup(ctx, viper.GetDuration("auth.cleanup_interval"), d.Users)

	origins := splitList(viper.GetStringSlice("host.cors_origins"))
	if err := checkOrigins(origins); err != nil {
		return nil, err
	}

	return New(ctx, d, Options{
		CORSOrigins: origins,
		RateLimit:   viper.GetInt("security.rate_limit"),
		Turnstile: middleware.TurnstileConfig{
			Enabled: viper.GetBool("cloudflare.turnstile.enabled"),
			Secret:  viper.GetString("cloudflare.turnstile.secret_token"),
		},
	}), nil
}

// New mounts every route on a fresh engine
func New(ctx context.Context, d *internal.Deps, o Options) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     o.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: o.RateLimit,
		Burst:             o.RateLimit * 2,
	})
	if o.RateLimit > 0 {
		go limiter.Run(ctx)
	}

	jwt := middleware.NewJWTMiddleware(d.Tokens)
	turnstile := middleware.NewTurnstileMiddleware(o.Turnstile)

	m := router.Group("/api", limiter.Middleware(), middleware.BodySizeLimiter(maxBodySize))
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/validate		-> Validates a JWT token
		m.GET("/validate", jwt, root.Validate)
	}

	a := m.Group("/auth")
	{
		// POST /api/auth/register	-> Registers a new user and mails a verification link
		a.POST("/register", turnstile, func(c *gin.Context) { auth.Register(c, d) })

		// GET /api/auth/verify/:token	-> Verifies a user's email, answers with HTML
		a.GET("/verify/:token", func(c *gin.Context) { auth.Verify(c, d) })

		// POST /api/auth/login		-> Logs in a verified user and returns a JWT token
		a.POST("/login", func(c *gin.Context) { auth.Login(c, d) })

		// GET /api/auth/profile	-> Returns the logged in user
		a.GET("/profile", jwt, func(c *gin.Context) { auth.ProfileFetch(c, d) })

		// PUT /api/auth/profile	-> Updates the logged in user and returns a fresh token
		a.PUT("/profile", jwt, func(c *gin.Context) { auth.ProfileUpdate(c, d) })
	}

	p := m.Group("/posts")
	{
		// GET /api/posts		-> Returns every post, newest first
		p.GET("", func(c *gin.Context) { post.List(c, d) })

		// POST /api/posts		-> Creates a post owned by the logged in user
		p.POST("", jwt, func(c *gin.Context) { post.Create(c, d) })

		// PUT /api/posts/like/:id	-> Adds a like to a post
		p.PUT("/like/:id", func(c *gin.Context) { post.Like(c, d) })
	}

	pr := m.Group("/prayers")
	{
		// GET /api/prayers		-> Returns every prayer request, newest first
		pr.GET("", func(c *gin.Context) { prayer.List(c, d) })

		// POST /api/prayers		-> Submits a prayer request, no account needed
		pr.POST("", turnstile, func(c *gin.Context) { prayer.Submit(c, d) })

		// PUT /api/prayers/amen/:id	-> Adds an amen to a prayer request
		pr.PUT("/amen/:id", func(c *gin.Context) { prayer.Amen(c, d) })
	}

	return router
}

// MakeLogger replaces the global zap logger with a coloured development
// logger at the given level
func MakeLogger(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)
	return nil
}

// splitList accepts both proper lists and a single comma separated value,
// which is what environment variables give us
func splitList(in []string) []string {
	out := []string{}

	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}

var errNoOrigins = errors.New("no CORS origins configured")

// cors.New panics on an empty or malformed origin list, fail with an error
// at startup instead
func checkOrigins(origins []string) error {
	if len(origins) == 0 {
		return errNoOrigins
	}

	for _, o := range origins {
		if o != "*" && !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			return fmt.Errorf("bad CORS origin %q", o)
		}
	}

	return nil
}
