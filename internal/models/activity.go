package models

// Activity actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Entity types recorded in the activity log.
const (
	EntityCycle       = "cycle"
	EntityDailyLog    = "daily_log"
	EntityModelParams = "model_params"
)

// ActivityEntry is one audited mutation.
type ActivityEntry struct {
	ID         string `json:"id"`
	Timestamp  string `json:"timestamp"`
	Actor      string `json:"actor,omitempty"`
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId"`
	Action     string `json:"action"`
	FieldName  string `json:"fieldName,omitempty"`
	OldValue   string `json:"oldValue,omitempty"`
	NewValue   string `json:"newValue,omitempty"`
}
