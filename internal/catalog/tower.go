package catalog

import (
	"net/url"
	"time"
)

// Tower construction states.
const (
	TowerUnderConstruction = "Under Construction"
	TowerCompleted         = "Completed"
)

// Tower is a building within a project. Towers carry no asset fields.
type Tower struct {
	ID          string     `firestore:"-" json:"id,omitempty"`
	DeveloperID string     `firestore:"developerId" json:"developerId"`
	ProjectID   string     `firestore:"projectId" json:"projectId"`
	Name        string     `firestore:"name" json:"name"`
	TotalFloors int        `firestore:"totalFloors" json:"totalFloors"`
	CoreCount   int        `firestore:"coreCount" json:"coreCount"`
	TotalUnits  int        `firestore:"totalUnits" json:"totalUnits"`
	Status      string     `firestore:"status" json:"status"`
	TowerStatus string     `firestore:"towerStatus" json:"towerStatus"`
	CreatedBy   string     `firestore:"createdBy" json:"createdBy"`
	CreatedOn   time.Time  `firestore:"createdOn" json:"createdOn"`
	UpdatedBy   *string    `firestore:"updatedBy" json:"updatedBy"`
	UpdatedOn   *time.Time `firestore:"updatedOn" json:"updatedOn"`
}

func (t *Tower) applyForm(v url.Values) (errs []string) {
	setStr(&t.DeveloperID, v, "developerId")
	setStr(&t.ProjectID, v, "projectId")
	setStr(&t.Name, v, "name")
	setInt(&t.TotalFloors, v, "totalFloors", "Total floors", &errs)
	setInt(&t.CoreCount, v, "coreCount", "Core count", &errs)
	setInt(&t.TotalUnits, v, "totalUnits", "Total units", &errs)
	setStr(&t.Status, v, "status")
	setStr(&t.TowerStatus, v, "towerStatus")
	return errs
}

func (t *Tower) Validate() []string {
	var errs []string
	if t.DeveloperID == "" {
		errs = append(errs, "Developer ID is required")
	}
	if t.ProjectID == "" {
		errs = append(errs, "Project ID is required")
	}
	if t.Name == "" {
		errs = append(errs, "Tower name is required")
	}
	if t.TotalFloors <= 0 {
		errs = append(errs, "Total floors must be an integer")
	}
	if t.CoreCount <= 0 {
		errs = append(errs, "Core count must be an integer")
	}
	if t.TotalUnits <= 0 {
		errs = append(errs, "Total units must be an integer")
	}
	if !oneOf(t.Status, StatusActive, StatusDisable) {
		errs = append(errs, "Status must be either Active or Disable")
	}
	if !oneOf(t.TowerStatus, TowerUnderConstruction, TowerCompleted) {
		errs = append(errs, "Tower status must be either Under Construction or Completed")
	}
	return errs
}
