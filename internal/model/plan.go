package model

// Plan is an action item under a goal
type Plan struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Content   string `json:"content" gorm:"type:text;not null"`
	Completed bool   `json:"completed" gorm:"default:false"`
	GoalID    uint   `json:"goal_id" gorm:"index;not null"`
}

// Public returns the plan record shape exposed by the API
func (p *Plan) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":        p.ID,
		"content":   p.Content,
		"completed": p.Completed,
		"goal_id":   p.GoalID,
	}
}
