package routes

import (
	"log"
	"net/http"
	"path"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/docbid-api/internal/handlers"
	"github.com/harentsoaR/docbid-api/internal/middleware"
	"github.com/harentsoaR/docbid-api/internal/utils"
)

type Options struct {
	AllowedOrigins []string // "*" or empty allows any origin
	PublicDir      string
	AuthLimiter    *middleware.RateLimiter
	// TrustedProxies may set X-Forwarded-For. With none, the client IP is
	// always the connection's remote address.
	TrustedProxies []string
}

// NewRouter builds the gin engine with every route and middleware attached.
func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.Printf("Invalid trusted proxies %v, trusting none: %v", opts.TrustedProxies, err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/", h.Root)
	r.GET("/healthz", h.HealthCheck)
	r.GET("/livez", h.LivenessCheck)
	r.GET("/readyz", h.ReadinessCheck)

	// --- Auth ---
	authWrites := []gin.HandlerFunc{}
	if opts.AuthLimiter != nil {
		authWrites = append(authWrites, opts.AuthLimiter.Middleware())
	}
	r.POST("/sign-up", append(authWrites, h.SignUp)...)
	r.POST("/login", append(authWrites, h.Login)...)
	r.GET("/validate", h.Validate)

	// --- Reads ---
	r.GET("/users", h.GetUsers)
	r.GET("/users/:id", h.GetUser)
	r.GET("/doctors", h.GetDoctors)
	r.GET("/doctors/:id", h.GetDoctor)
	r.GET("/categories", h.GetCategories)
	r.GET("/categories/:id", h.GetCategory)
	r.GET("/appointements", h.GetAppointments)
	r.GET("/appointements/:id", h.GetAppointment)
	r.GET("/bids", h.GetBids)
	r.GET("/bids/:id", h.GetBid)

	// --- Writes (authenticated) ---
	authorized := r.Group("/")
	authorized.Use(middleware.AuthMiddleware(h.Auth))
	{
		authorized.POST("/categories", h.CreateCategory)
		authorized.POST("/appointements", h.CreateAppointment)
		authorized.POST("/bids", h.CreateBid)
	}

	r.NoRoute(staticFiles(opts.PublicDir))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// staticFiles serves regular files under dir for paths no route matched.
func staticFiles(dir string) gin.HandlerFunc {
	fs := http.Dir(dir)
	fileServer := http.FileServer(fs)
	return func(c *gin.Context) {
		if dir != "" && (c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead) {
			if f, err := fs.Open(path.Clean(c.Request.URL.Path)); err == nil {
				info, statErr := f.Stat()
				f.Close()
				if statErr == nil && !info.IsDir() {
					fileServer.ServeHTTP(c.Writer, c.Request)
					return
				}
			}
		}
		utils.WriteError(c, http.StatusNotFound, utils.CodeNotFound, "Route not found")
	}
}
