package catalog

import (
	"net/url"
	"strings"
	"time"
)

// Amenity is a reusable catalog item referenced by projects by name.
type Amenity struct {
	ID             string     `firestore:"-" json:"id,omitempty"`
	Name           string     `firestore:"name" json:"name"`
	NormalizedName string     `firestore:"normalizedName" json:"normalizedName"`
	LogoURL        string     `firestore:"logoUrl" json:"logoUrl"`
	CreatedBy      string     `firestore:"createdBy" json:"createdBy"`
	CreatedOn      time.Time  `firestore:"createdOn" json:"createdOn"`
	UpdatedBy      *string    `firestore:"updatedBy" json:"updatedBy"`
	UpdatedOn      *time.Time `firestore:"updatedOn" json:"updatedOn"`
}

func (a *Amenity) applyForm(v url.Values) []string {
	setStr(&a.Name, v, "name")
	a.NormalizedName = strings.ToLower(strings.TrimSpace(a.Name))
	return nil
}

func (a *Amenity) Validate() []string {
	var errs []string
	if strings.TrimSpace(a.Name) == "" {
		errs = append(errs, "Name is required")
	}
	if a.LogoURL == "" {
		errs = append(errs, "Logo is required")
	}
	return errs
}
