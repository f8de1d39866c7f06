package handler

import (
	"net/http"
	"strconv"
	"time"

	"goal-service/internal/model"
	"goal-service/pkg/database"
	"goal-service/pkg/logger"
	"goal-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GoalRequest defines the structure for goal creation requests
type GoalRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	TargetValue *float64 `json:"target_value"`
	Deadline    *string  `json:"deadline"`
}

// GoalUpdateRequest carries the patchable fields of a goal; only fields
// present in the body are applied
type GoalUpdateRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	TargetValue *float64 `json:"target_value"`
	Deadline    *string  `json:"deadline"`
}

// ProgressRequest updates a goal's current value, absolutely and/or
// relatively. When both fields are present the absolute value is applied
// first and the increment added on top.
type ProgressRequest struct {
	CurrentValue *float64 `json:"current_value"`
	Increment    *float64 `json:"increment"`
}

// currentUserID extracts the authenticated user's id placed in the
// context by the auth middleware
func currentUserID(c echo.Context) (uint, bool) {
	userID, ok := c.Get("user_id").(uint)
	return userID, ok
}

// findOwnedGoal fetches a goal scoped to its owner. A goal belonging to
// another user is reported the same way as a missing one.
func findOwnedGoal(db *gorm.DB, goalID, userID uint, withChildren bool) (*model.Goal, error) {
	query := db.Where("id = ? AND user_id = ?", goalID, userID)
	if withChildren {
		query = query.Preload("Plans").Preload("Tips")
	}

	var goal model.Goal
	if err := query.First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// pathID parses the numeric id segment of the route
func pathID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// CreateGoal creates a new goal owned by the current user
func CreateGoal(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("goal", "create")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req GoalRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid goal request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Title == "" || req.TargetValue == nil {
		log.Warn("Incomplete goal data", zap.String("title", req.Title))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and target_value are required"})
	}

	var deadline *time.Time
	if req.Deadline != nil && *req.Deadline != "" {
		parsed, err := model.ParseTimestamp(*req.Deadline)
		if err != nil {
			log.Warn("Unparsable deadline", zap.String("deadline", *req.Deadline))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid deadline"})
		}
		deadline = &parsed
	}

	goal := model.Goal{
		Title:       req.Title,
		Description: req.Description,
		TargetValue: req.TargetValue,
		Deadline:    deadline,
		UserID:      userID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&goal); result.Error != nil {
		log.Error("Failed to create goal", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Goal created", zap.Uint("goal_id", goal.ID), zap.Uint("user_id", userID))
	return c.JSON(http.StatusCreated, goal.Public())
}

// ListGoals returns all goals owned by the current user
func ListGoals(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("goal", "list")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var goals []model.Goal
	if err := database.GetDB().
		Preload("Plans").Preload("Tips").
		Where("user_id = ?", userID).
		Order("id").
		Find(&goals).Error; err != nil {
		log.Error("Failed to list goals", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	records := make([]map[string]interface{}, 0, len(goals))
	for i := range goals {
		records = append(records, goals[i].Public())
	}
	return c.JSON(http.StatusOK, records)
}

// GetGoal returns a single goal owned by the current user
func GetGoal(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("goal", "read")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	goalID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	goal, err := findOwnedGoal(database.GetDB(), goalID, userID, true)
	if err != nil {
		log.Warn("Goal not found", zap.Uint("goal_id", goalID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	return c.JSON(http.StatusOK, goal.Public())
}

// UpdateGoal applies a partial update to a goal owned by the current user
func UpdateGoal(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("goal", "update")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	goalID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	goal, err := findOwnedGoal(database.GetDB(), goalID, userID, true)
	if err != nil {
		log.Warn("Goal not found", zap.Uint("goal_id", goalID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	var req GoalUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid goal update data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = req.Description
	}
	if req.TargetValue != nil {
		goal.TargetValue = req.TargetValue
	}
	if req.Deadline != nil && *req.Deadline != "" {
		parsed, err := model.ParseTimestamp(*req.Deadline)
		if err != nil {
			log.Warn("Unparsable deadline", zap.String("deadline", *req.Deadline))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid deadline"})
		}
		goal.Deadline = &parsed
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Omit(clause.Associations).Save(goal).Error; err != nil {
		log.Error("Failed to update goal", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Goal updated", zap.Uint("goal_id", goal.ID))
	return c.JSON(http.StatusOK, goal.Public())
}

// DeleteGoal removes a goal and all of its plans and tips
func DeleteGoal(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("goal", "delete")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	goalID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	goal, err := findOwnedGoal(database.GetDB(), goalID, userID, false)
	if err != nil {
		log.Warn("Goal not found", zap.Uint("goal_id", goalID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	// Delete dependents and the goal itself in one transaction
	defer prometheus.TrackDBOperation("delete")(time.Now())
	err = database.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&model.Plan{}).Error; err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", goal.ID).Delete(&model.Tip{}).Error; err != nil {
			return err
		}
		return tx.Delete(goal).Error
	})
	if err != nil {
		log.Error("Failed to delete goal", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Goal deleted", zap.Uint("goal_id", goal.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "goal deleted successfully"})
}

// UpdateProgress adjusts a goal's current value
func UpdateProgress(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("goal", "progress")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	goalID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	goal, err := findOwnedGoal(database.GetDB(), goalID, userID, true)
	if err != nil {
		log.Warn("Goal not found", zap.Uint("goal_id", goalID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	var req ProgressRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid progress data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	// Absolute value first, then the relative increment
	if req.CurrentValue != nil {
		goal.CurrentValue = *req.CurrentValue
	}
	if req.Increment != nil {
		goal.CurrentValue += *req.Increment
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Omit(clause.Associations).Save(goal).Error; err != nil {
		log.Error("Failed to update progress", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Progress updated",
		zap.Uint("goal_id", goal.ID),
		zap.Float64("current_value", goal.CurrentValue))
	return c.JSON(http.StatusOK, goal.Public())
}
