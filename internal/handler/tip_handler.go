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

// TipRequest defines the structure for tip creation requests
type TipRequest struct {
	Advice string  `json:"advice"`
	Source *string `json:"source"`
}

// TipUpdateRequest carries the patchable fields of a tip
type TipUpdateRequest struct {
	Advice *string `json:"advice"`
	Source *string `json:"source"`
}

// findOwnedTip fetches a tip whose parent goal belongs to the current
// user, same two-step lookup as plans
func findOwnedTip(db *gorm.DB, tipID, userID uint) (*model.Tip, error) {
	var tip model.Tip
	if err := db.First(&tip, tipID).Error; err != nil {
		return nil, err
	}
	if _, err := findOwnedGoal(db, tip.GoalID, userID, false); err != nil {
		return nil, err
	}
	return &tip, nil
}

// CreateTip creates a tip under a goal owned by the current user
func CreateTip(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("tip", "create")

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

	var req TipRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid tip data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Advice == "" {
		log.Warn("Missing tip advice", zap.Uint("goal_id", goal.ID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "advice is required"})
	}

	tip := model.Tip{
		Advice: req.Advice,
		Source: req.Source,
		GoalID: goal.ID,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&tip); result.Error != nil {
		log.Error("Failed to create tip", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Tip created", zap.Uint("tip_id", tip.ID), zap.Uint("goal_id", goal.ID))
	return c.JSON(http.StatusCreated, tip.Public())
}

// ListTips returns all tips under a goal owned by the current user
func ListTips(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("tip", "list")

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
	var tips []model.Tip
	if err := database.GetDB().Where("goal_id = ?", goalID).Order("id").Find(&tips).Error; err != nil {
		log.Error("Failed to list tips", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	records := make([]map[string]interface{}, 0, len(tips))
	for i := range tips {
		records = append(records, tips[i].Public())
	}
	return c.JSON(http.StatusOK, records)
}

// UpdateTip applies a partial update to a tip reachable through a goal
// owned by the current user
func UpdateTip(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("tip", "update")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	tipID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tip not found"})
	}

	tip, err := findOwnedTip(database.GetDB(), tipID, userID)
	if err != nil {
		log.Warn("Tip not found", zap.Uint("tip_id", tipID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tip not found"})
	}

	var req TipUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid tip update data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Advice != nil {
		tip.Advice = *req.Advice
	}
	if req.Source != nil {
		tip.Source = req.Source
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := database.GetDB().Save(tip).Error; err != nil {
		log.Error("Failed to update tip", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Tip updated", zap.Uint("tip_id", tip.ID))
	return c.JSON(http.StatusOK, tip.Public())
}

// DeleteTip removes a tip reachable through a goal owned by the current
// user
func DeleteTip(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordEntityOperation("tip", "delete")

	userID, ok := currentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	tipID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tip not found"})
	}

	tip, err := findOwnedTip(database.GetDB(), tipID, userID)
	if err != nil {
		log.Warn("Tip not found", zap.Uint("tip_id", tipID), zap.Uint("user_id", userID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tip not found"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := database.GetDB().Delete(tip).Error; err != nil {
		log.Error("Failed to delete tip", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	log.Info("Tip deleted", zap.Uint("tip_id", tip.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "tip deleted successfully"})
}
