package catalog

import (
	"net/url"
	"regexp"
	"time"
)

var developerNamePattern = regexp.MustCompile(`^[A-Z0-9\s]+$`)

// Developer is a real-estate development company. Names are stored
// uppercased; age is derived from the incorporation date at write time.
type Developer struct {
	ID                     string     `firestore:"-" json:"id,omitempty"`
	Name                   string     `firestore:"name" json:"name"`
	Address                string     `firestore:"address" json:"address"`
	IncorporationDate      string     `firestore:"incorporationDate" json:"incorporationDate"`
	TotalProjectsDelivered int        `firestore:"totalProjectsDelivered" json:"totalProjectsDelivered"`
	TotalSqFtDelivered     int        `firestore:"totalSqFtDelivered" json:"totalSqFtDelivered"`
	Description            string     `firestore:"description" json:"description"`
	WebsiteLink            string     `firestore:"websiteLink" json:"websiteLink"`
	LogoURL                string     `firestore:"logoUrl" json:"logoUrl"`
	Age                    int        `firestore:"age" json:"age"`
	Status                 string     `firestore:"status" json:"status"`
	CreatedBy              string     `firestore:"createdBy" json:"createdBy"`
	CreatedOn              time.Time  `firestore:"createdOn" json:"createdOn"`
	UpdatedBy              *string    `firestore:"updatedBy" json:"updatedBy"`
	UpdatedOn              *time.Time `firestore:"updatedOn" json:"updatedOn"`
}

func (d *Developer) applyForm(v url.Values) (errs []string) {
	setUpper(&d.Name, v, "name")
	setStr(&d.Address, v, "address")
	setStr(&d.IncorporationDate, v, "incorporationDate")
	setInt(&d.TotalProjectsDelivered, v, "totalProjectsDelivered", "Total projects delivered", &errs)
	setInt(&d.TotalSqFtDelivered, v, "totalSqFtDelivered", "Total sq ft delivered", &errs)
	setStr(&d.Description, v, "description")
	setStr(&d.WebsiteLink, v, "websiteLink")
	setStr(&d.Status, v, "status")
	d.Age = ageFrom(d.IncorporationDate)
	return errs
}

// Validate reports field errors for the fully merged candidate. Pure.
func (d *Developer) Validate() []string {
	var errs []string
	if d.Name == "" || !developerNamePattern.MatchString(d.Name) {
		errs = append(errs, "Developer name is required and must be in capital letters")
	}
	if d.Address == "" {
		errs = append(errs, "Address is required")
	}
	if !isValidDate(d.IncorporationDate) {
		errs = append(errs, "Valid incorporation date is required")
	}
	if d.Description == "" || len(d.Description) < 50 {
		errs = append(errs, "Description must be at least 50 characters long")
	}
	if d.WebsiteLink == "" || !isValidURL(d.WebsiteLink) {
		errs = append(errs, "Valid website link is required")
	}
	if d.LogoURL == "" || !isImageURL(d.LogoURL) {
		errs = append(errs, "Logo must be a PNG or JPG file")
	}
	if !oneOf(d.Status, StatusActive, StatusDisable) {
		errs = append(errs, "Status must be either Active or Disable")
	}
	return errs
}

func ageFrom(incorporationDate string) int {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, incorporationDate); err == nil {
			years := int(time.Since(t).Hours() / (24 * 365.25))
			if years < 0 {
				return 0
			}
			return years
		}
	}
	return 0
}
