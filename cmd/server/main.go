package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"hos-trip-service/internal/adapters/cache"
	"hos-trip-service/internal/adapters/distance"
	"hos-trip-service/internal/adapters/repositories"
	"hos-trip-service/internal/api"
	"hos-trip-service/internal/config"
	"hos-trip-service/internal/domain"
	"hos-trip-service/internal/platform/db"
	"hos-trip-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (SQLite or Postgres storage, optional Redis
// route cache, ORS routing) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	dbPath := config.Get("DB_PATH", "data/app.db")
	databaseURL := os.Getenv("DATABASE_URL")
	redisAddr := os.Getenv("REDIS_ADDR")

	orsKey := os.Getenv("ORS_API_KEY")
	if strings.TrimSpace(orsKey) == "" {
		log.Fatal("ORS_API_KEY is required")
	}

	var (
		conn         *sql.DB
		repo         ports.TripRepository
		routeCache   distance.RouteCache
		geocodeCache distance.GeocodeCache
		err          error
	)

	// Postgres when DATABASE_URL is set, otherwise a local SQLite file.
	if strings.TrimSpace(databaseURL) != "" {
		conn, err = db.Open(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		if err := repositories.InitPostgresSchema(conn); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewSQLTripRepository(conn)
		routeCache = cache.NewSQLRouteCache(conn)
		geocodeCache = cache.NewSQLGeocodeCache(conn)
	} else {
		conn, err = openSqlite(dbPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := repositories.InitSchema(conn); err != nil {
			log.Fatal(err)
		}
		repo = repositories.NewSqliteTripRepository(conn)
		routeCache = cache.NewSqliteRouteCache(conn)
		geocodeCache = cache.NewSqliteGeocodeCache(conn)
	}
	defer conn.Close()

	// A shared Redis instance takes over route caching when configured.
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		routeCache = cache.NewRedisRouteCache(client, 0)
		log.Printf("Route cache backed by redis addr=%s", redisAddr)
	}

	provider, err := distance.NewORSDistanceProvider(orsKey, routeCache, geocodeCache)
	if err != nil {
		log.Fatal(err)
	}

	router := api.NewRouter(repo, provider, domain.DefaultHOSRules())

	// Timeouts are tuned for cold-cache trip planning (external API latency).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

func openSqlite(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openSqlite: open sqlite database %q: %w", dbPath, err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("openSqlite: verify sqlite connection to %q: %w", dbPath, err)
	}

	return conn, nil
}
