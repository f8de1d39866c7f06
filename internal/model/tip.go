package model

// Tip is an advice snippet attached to a goal
type Tip struct {
	ID     uint    `json:"id" gorm:"primaryKey"`
	Advice string  `json:"advice" gorm:"type:text;not null"`
	Source *string `json:"source" gorm:"type:varchar(200)"`
	GoalID uint    `json:"goal_id" gorm:"index;not null"`
}

// Public returns the tip record shape exposed by the API
func (t *Tip) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":      t.ID,
		"advice":  t.Advice,
		"source":  t.Source,
		"goal_id": t.GoalID,
	}
}
