package model

import "time"

// Goal represents a trackable objective owned by a single user
type Goal struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"type:varchar(100);not null"`
	Description  *string    `json:"description" gorm:"type:text"`
	TargetValue  *float64   `json:"target_value"`
	CurrentValue float64    `json:"current_value" gorm:"default:0"`
	Deadline     *time.Time `json:"deadline"`
	CreatedAt    time.Time  `json:"created_at"`
	UserID       uint       `json:"user_id" gorm:"index;not null"`

	Plans []Plan `json:"plans" gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
	Tips  []Tip  `json:"tips" gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
}

// Public returns the goal record shape exposed by the API, including
// its plans and tips
func (g *Goal) Public() map[string]interface{} {
	plans := make([]map[string]interface{}, 0, len(g.Plans))
	for i := range g.Plans {
		plans = append(plans, g.Plans[i].Public())
	}
	tips := make([]map[string]interface{}, 0, len(g.Tips))
	for i := range g.Tips {
		tips = append(tips, g.Tips[i].Public())
	}

	return map[string]interface{}{
		"id":            g.ID,
		"title":         g.Title,
		"description":   g.Description,
		"target_value":  g.TargetValue,
		"current_value": g.CurrentValue,
		"deadline":      formatTimestampPtr(g.Deadline),
		"created_at":    FormatTimestamp(g.CreatedAt),
		"user_id":       g.UserID,
		"plans":         plans,
		"tips":          tips,
	}
}
