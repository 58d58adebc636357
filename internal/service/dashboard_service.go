package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/domain/dashboard"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/store"
)

// DashboardService computes a user's dashboard figures from their tasks.
type DashboardService interface {
	Summary(ctx context.Context, userID uuid.UUID) (dashboard.Summary, error)
	Breakdown(ctx context.Context, userID uuid.UUID) (dashboard.PriorityBreakdown, error)
	WeeklyActivity(ctx context.Context, userID uuid.UUID) (dashboard.Activity, error)
	Overview(ctx context.Context, userID uuid.UUID) (dashboard.Overview, error)
}

// DashboardServiceImpl implements DashboardService. Every call loads the
// user's tasks once and evaluates them against the current day in loc.
type DashboardServiceImpl struct {
	taskStore store.TaskStore
	loc       *time.Location
	now       func() time.Time
	logger    *slog.Logger
}

var _ DashboardService = (*DashboardServiceImpl)(nil)

// NewDashboardService creates a DashboardService. A nil loc means UTC.
func NewDashboardService(taskStore store.TaskStore, loc *time.Location, logger *slog.Logger) *DashboardServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		taskStore: taskStore,
		loc:       loc,
		now:       time.Now,
		logger:    logger.With("component", "dashboard_service"),
	}
}

func (s *DashboardServiceImpl) load(ctx context.Context, op string, userID uuid.UUID) ([]domain.Task, error) {
	tasks, err := s.taskStore.ListAllByUser(ctx, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load tasks for dashboard",
			"op", op,
			"user_id", userID,
			"error", err)
		return nil, NewServiceError("dashboard", op, err)
	}
	return tasks, nil
}

// Summary implements DashboardService.
func (s *DashboardServiceImpl) Summary(ctx context.Context, userID uuid.UUID) (dashboard.Summary, error) {
	tasks, err := s.load(ctx, "summary", userID)
	if err != nil {
		return dashboard.Summary{}, err
	}
	return dashboard.Summarize(tasks, s.now(), s.loc), nil
}

// Breakdown implements DashboardService.
func (s *DashboardServiceImpl) Breakdown(ctx context.Context, userID uuid.UUID) (dashboard.PriorityBreakdown, error) {
	tasks, err := s.load(ctx, "breakdown", userID)
	if err != nil {
		return dashboard.PriorityBreakdown{}, err
	}
	return dashboard.Breakdown(tasks, s.now(), s.loc), nil
}

// WeeklyActivity implements DashboardService.
func (s *DashboardServiceImpl) WeeklyActivity(ctx context.Context, userID uuid.UUID) (dashboard.Activity, error) {
	tasks, err := s.load(ctx, "weekly_activity", userID)
	if err != nil {
		return dashboard.Activity{}, err
	}
	return dashboard.WeeklyActivity(tasks, s.now(), s.loc), nil
}

// Overview implements DashboardService.
func (s *DashboardServiceImpl) Overview(ctx context.Context, userID uuid.UUID) (dashboard.Overview, error) {
	tasks, err := s.load(ctx, "overview", userID)
	if err != nil {
		return dashboard.Overview{}, err
	}
	return dashboard.BuildOverview(tasks, s.now(), s.loc), nil
}
