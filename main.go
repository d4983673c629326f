package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"labhouse/cmd"
	"labhouse/internal/auditlog"
	"labhouse/internal/bookings"
	"labhouse/internal/borrowings"
	"labhouse/internal/database"
	"labhouse/internal/inventory"
	"labhouse/internal/labs"
	"labhouse/internal/locations"
	"labhouse/internal/logger"
	"labhouse/internal/middleware"
	"labhouse/internal/repository"
	"labhouse/internal/users"
	auditor "labhouse/pkg/auditlog"
	"labhouse/pkg/security"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	zapLog := logger.NewLogger()
	defer zapLog.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		zapLog.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		zapLog.Fatal("unable to connect to the database: " + err.Error())
	}
	defer db.Close()

	zapLog.Info("Connected to the database successfully")

	repo := repository.NewRepository(db)
	auditLog := auditor.NewAuditLog(auditlog.NewRepository(repo), zapLog)

	// Borrowing goes through an approval step unless explicitly disabled.
	requiresApproval := os.Getenv("BORROW_REQUIRES_APPROVAL") != "false"
	scopeBuildings := strings.Split(os.Getenv("LAB_SCOPE_BUILDINGS"), ",")

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(zapLog))
	router.Use(middleware.MetricsMiddleware())
	router.Use(cors.Default())

	security.NewLoginHandler(repo).RegisterRoutes(router)
	users.RegisterRoutes(router, repo, zapLog)
	inventory.RegisterRoutes(router, repo, auditLog, zapLog)
	labs.RegisterRoutes(router, repo, auditLog, zapLog, scopeBuildings)
	borrowings.RegisterRoutes(router, repo, auditLog, zapLog, requiresApproval)
	bookings.RegisterRoutes(router, repo, auditLog, zapLog)
	locations.RegisterRoutes(router, repo, zapLog)
	auditlog.RegisterRoutes(router, repo, zapLog)

	router.GET("/metrics", middleware.MetricsHandler())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
