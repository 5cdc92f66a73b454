package main

import (
	"context"
	"log"
	"os"
	"time"

	apimod "github.com/example/task-tracker/modules/api"
	authmod "github.com/example/task-tracker/modules/auth"
	cachemod "github.com/example/task-tracker/modules/cache"
	tasksmod "github.com/example/task-tracker/modules/tasks"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load() // load .env if present (ok if missing in prod)

	log.Println("=== Task Tracker API ===")

	authModule := authmod.NewModule()
	tasksModule := tasksmod.NewModule()
	apiModule := apimod.NewModule()

	// The cache is optional: without REDIS_ADDR every read goes to SQLite.
	var cacheModule *cachemod.CacheModule
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		cacheTTL := getEnvDuration("CACHE_TTL", 5*time.Minute)
		cacheModule = cachemod.NewModule(redisAddr, "tasks:", cacheTTL)
	}

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Register modules with the framework
	// Order: independent modules first, then dependent modules
	if cacheModule != nil {
		app.Register(cacheModule)
	}
	app.Register(authModule)
	app.Register(tasksModule)
	app.Register(apiModule) // Depends on auth and tasks modules

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wire the cache into the task service after startup
	if cacheModule != nil {
		tasksModule.SetCache(cacheModule.GetCache())
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

// getEnvDuration returns an environment variable as a duration or a default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

func printStartupInfo() {
	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("REST API Endpoints (http://localhost:3000):")
	log.Println("")
	log.Println("  Public Endpoints:")
	log.Println("  POST   /api/auth/signin                    - Sign in and get a token")
	log.Println("  POST   /api/auth/signup                    - Sign up and get a token")
	log.Println("  GET    /health                             - Health check")
	log.Println("")
	log.Println("  Protected Endpoints (require Bearer token, owner-scoped):")
	log.Println("  GET    /api/:userID/tasks                  - List tasks (status/sort filters)")
	log.Println("  POST   /api/:userID/tasks                  - Create a task")
	log.Println("  GET    /api/:userID/tasks/:id              - Get a task")
	log.Println("  PUT    /api/:userID/tasks/:id              - Update a task")
	log.Println("  DELETE /api/:userID/tasks/:id              - Delete a task")
	log.Println("  PATCH  /api/:userID/tasks/:id/complete     - Toggle completion")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
