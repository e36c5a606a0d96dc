package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskboardhq/taskboard-api/internal/config"
	"github.com/taskboardhq/taskboard-api/internal/platform/postgres"
	"github.com/taskboardhq/taskboard-api/internal/service"
	"github.com/taskboardhq/taskboard-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown. Dependencies are wired
// once here, by constructor injection; there are no package-level singletons.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore

	// Services
	userService service.UserService
	taskService service.TaskService
}

// newApplication builds the dependency graph on top of the given database
// connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	userStore := postgres.NewUserStore(db, logger)
	taskStore := postgres.NewTaskStore(db, logger)

	userService, err := service.NewUserService(userStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	taskService, err := service.NewTaskService(taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		userStore:   userStore,
		taskStore:   taskStore,
		userService: userService,
		taskService: taskService,
	}, nil
}

// Close releases the application's resources.
func (app *application) Close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
		}
	}
}
