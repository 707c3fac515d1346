package handlers

import (
	"time"

	"go.uber.org/zap"

	"github.com/umdbot/migration_bot/internal/controller/callbacks/callbacktypes"
	"github.com/umdbot/migration_bot/internal/controller/state"
	"github.com/umdbot/migration_bot/internal/schedule"
	"github.com/umdbot/migration_bot/internal/service"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService       callbacktypes.UserService
	schedulingService callbacktypes.SchedulingService
	adminService      callbacktypes.AdminService
	stateManager      state.Store
	deadlines         schedule.DeadlinePolicy
	clock             service.TimeProvider
	location          *time.Location
	logger            *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(deps *callbacktypes.Handler) *Handlers {
	return &Handlers{
		userService:       deps.UserService,
		schedulingService: deps.SchedulingService,
		adminService:      deps.AdminService,
		stateManager:      deps.StateManager,
		deadlines:         deps.Deadlines,
		clock:             deps.Clock,
		location:          deps.Location,
		logger:            deps.Logger,
	}
}

