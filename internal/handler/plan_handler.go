package handler

import (
	"net/http"
	"time"

	"goal-service/internal/model"
	"goal-service/pkg/database"
	"goal-service/pkg/logger"
	"goal-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PlanRequest defines the structure for plan creation requests
type PlanRequest struct {
	Content string `json:"content"`
}

// PlanUpdateRequest carries the patchable fields of a plan
type PlanUpdateRequest struct {
	Content   *string `json:"content"`
	Completed *bool   `json:"completed"`
}

// findOwnedPlan fetches a plan whose parent goal belongs to the current
// user. Ownership is transitive: the plan is looked up first, then its
// goal is fetched scoped by the caller, and either miss reads as not
// found.
func findOwnedPlan(db *gorm.DB, planID, userID uint) (*model.Plan, error) {
	var plan model.Plan
	if err := db.First(&plan, planID).Error; err != nil {
		return nil, err
	}
	if _, err := findOwnedGoal(db, plan.GoalID, userID, false); err != nil {
		return nil, err
	}
	return &plan, nil
}

// CreatePlan creates a plan under a goal owned by the current user
func CreatePlan(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("plan", "create")

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

	var req PlanRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid plan data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Content == "" {
		log.Warn("Missing plan content", zap.Uint("goal_id", goal.ID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	plan := model.Plan{
		Content: req.Content,
		GoalID:  goal.ID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&plan); result.Error != nil {
		log.Error("Failed to create plan", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Plan created", zap.Uint("plan_id", plan.ID), zap.Uint("goal_id", goal.ID))
	return c.JSON(http.StatusCreated, plan.Public())
}

// ListPlans returns all plans under a goal owned by the current user
func ListPlans(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("plan", "list")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	goalID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	if _, err := findOwnedGoal(database.GetDB(), goalID, userID, false); err != nil {
		log.Warn("Goal not found", zap.Uint("goal_id", goalID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "goal not found"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var plans []model.Plan
	if err := database.GetDB().Where("goal_id = ?", goalID).Order("id").Find(&plans).Error; err != nil {
		log.Error("Failed to list plans", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	records := make([]map[string]interface{}, 0, len(plans))
	for i := range plans {
		records = append(records, plans[i].Public())
	}
	return c.JSON(http.StatusOK, records)
}

// UpdatePlan applies a partial update to a plan reachable through a goal
// owned by the current user
func UpdatePlan(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("plan", "update")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	planID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
	}

	plan, err := findOwnedPlan(database.GetDB(), planID, userID)
	if err != nil {
		log.Warn("Plan not found", zap.Uint("plan_id", planID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
	}

	var req PlanUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid plan update data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Content != nil {
		plan.Content = *req.Content
	}
	if req.Completed != nil {
		plan.Completed = *req.Completed
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(plan).Error; err != nil {
		log.Error("Failed to update plan", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Plan updated", zap.Uint("plan_id", plan.ID))
	return c.JSON(http.StatusOK, plan.Public())
}

// DeletePlan removes a plan reachable through a goal owned by the
// current user
func DeletePlan(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("plan", "delete")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	planID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
	}

	plan, err := findOwnedPlan(database.GetDB(), planID, userID)
	if err != nil {
		log.Warn("Plan not found", zap.Uint("plan_id", planID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "plan not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := database.GetDB().Delete(plan).Error; err != nil {
		log.Error("Failed to delete plan", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Plan deleted", zap.Uint("plan_id", plan.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "plan deleted successfully"})
}
