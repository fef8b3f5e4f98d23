package catalog

import (
	"fmt"
	"net/url"
	"time"
)

// RERA and lifecycle enums for projects.
const (
	ReraApplied       = "Rera Applied"
	ReraApproved      = "Rera Approved"
	ProjectDelivered  = "Delivered"
	ProjectInProgress = "Under Construction"
)

// Project is one development within a developer's portfolio.
type Project struct {
	ID                 string     `firestore:"-" json:"id,omitempty"`
	DeveloperID        string     `firestore:"developerId" json:"developerId"`
	Name               string     `firestore:"name" json:"name"`
	Address            string     `firestore:"address" json:"address"`
	GoogleMapLink      string     `firestore:"googleMapLink" json:"googleMapLink"`
	WhyThisProject     string     `firestore:"whyThisProject" json:"whyThisProject"`
	Description        string     `firestore:"description" json:"description"`
	LaunchDate         string     `firestore:"launchDate" json:"launchDate"`
	Images             []string   `firestore:"images" json:"images"`
	Videos             []string   `firestore:"videos" json:"videos"`
	ReraStatus         string     `firestore:"reraStatus" json:"reraStatus"`
	ReraNumber         string     `firestore:"reraNumber" json:"reraNumber"`
	ReraCompletionDate string     `firestore:"reraCompletionDate" json:"reraCompletionDate"`
	ProjectStatus      string     `firestore:"projectStatus" json:"projectStatus"`
	Status             string     `firestore:"status" json:"status"`
	PinCode            int        `firestore:"pinCode" json:"pinCode"`
	Category           string     `firestore:"category" json:"category"`
	TimelineStart      string     `firestore:"timelineStart" json:"timelineStart"`
	TimelineEnd        string     `firestore:"timelineEnd" json:"timelineEnd"`
	Amenities          []string   `firestore:"amenities" json:"amenities"`
	LocalityHighlights []string   `firestore:"localityHighlights" json:"localityHighlights"`
	BrochureURL        string     `firestore:"brochureUrl" json:"brochureUrl"`
	PriceStart         int        `firestore:"priceStart" json:"priceStart"`
	PriceEnd           int        `firestore:"priceEnd" json:"priceEnd"`
	PaymentPlan        string     `firestore:"paymentPlan" json:"paymentPlan"`
	UnitSizes          []string   `firestore:"unitSizes" json:"unitSizes"`
	TotalAcres         int        `firestore:"totalAcres" json:"totalAcres"`
	TotalUnits         int        `firestore:"totalUnits" json:"totalUnits"`
	Density            string     `firestore:"density" json:"density"`
	ClubCount          int        `firestore:"clubCount" json:"clubCount"`
	TotalClubArea      int        `firestore:"totalClubArea" json:"totalClubArea"`
	OpenArea           int        `firestore:"openArea" json:"openArea"`
	ProjectType        string     `firestore:"projectType" json:"projectType"`
	CreatedBy          string     `firestore:"createdBy" json:"createdBy"`
	CreatedOn          time.Time  `firestore:"createdOn" json:"createdOn"`
	UpdatedBy          *string    `firestore:"updatedBy" json:"updatedBy"`
	UpdatedOn          *time.Time `firestore:"updatedOn" json:"updatedOn"`
}

func (p *Project) applyForm(v url.Values) (errs []string) {
	setStr(&p.DeveloperID, v, "developerId")
	setStr(&p.Name, v, "name")
	setStr(&p.Address, v, "address")
	setStr(&p.GoogleMapLink, v, "googleMapLink")
	setStr(&p.WhyThisProject, v, "whyThisProject")
	setStr(&p.Description, v, "description")
	setStr(&p.LaunchDate, v, "launchDate")
	setStr(&p.ReraStatus, v, "reraStatus")
	setStr(&p.ReraNumber, v, "reraNumber")
	setStr(&p.ReraCompletionDate, v, "reraCompletionDate")
	setStr(&p.ProjectStatus, v, "projectStatus")
	setStr(&p.Status, v, "status")
	setInt(&p.PinCode, v, "pinCode", "Pin code", &errs)
	setStr(&p.Category, v, "category")
	setStr(&p.TimelineStart, v, "timelineStart")
	setStr(&p.TimelineEnd, v, "timelineEnd")
	setList(&p.Amenities, v, "amenities")
	setList(&p.LocalityHighlights, v, "localityHighlights")
	setInt(&p.PriceStart, v, "priceStart", "Price start", &errs)
	setInt(&p.PriceEnd, v, "priceEnd", "Price end", &errs)
	setStr(&p.PaymentPlan, v, "paymentPlan")
	setList(&p.UnitSizes, v, "unitSizes")
	setInt(&p.TotalAcres, v, "totalAcres", "Total acres", &errs)
	setInt(&p.TotalUnits, v, "totalUnits", "Total units", &errs)
	setStr(&p.Density, v, "density")
	setInt(&p.ClubCount, v, "clubCount", "Club count", &errs)
	setInt(&p.TotalClubArea, v, "totalClubArea", "Total club area", &errs)
	setInt(&p.OpenArea, v, "openArea", "Open area", &errs)
	setStr(&p.ProjectType, v, "projectType")
	return errs
}

// Validate reports field errors for the fully merged candidate. Referential
// existence of the developer is deliberately not checked here.
func (p *Project) Validate() []string {
	var errs []string
	if p.DeveloperID == "" {
		errs = append(errs, "Developer ID is required")
	}
	if p.Name == "" {
		errs = append(errs, "Project name is required")
	}
	if p.Address == "" {
		errs = append(errs, "Address is required")
	}
	if !isValidURL(p.GoogleMapLink) {
		errs = append(errs, "Valid Google Map link is required")
	}
	if len(p.WhyThisProject) < 50 {
		errs = append(errs, "Why this project must be at least 50 characters")
	}
	if len(p.Description) < 50 {
		errs = append(errs, "Project description must be at least 50 characters")
	}
	if !isValidDate(p.LaunchDate) {
		errs = append(errs, "Valid launch date is required")
	}
	for i, u := range p.Images {
		if !isValidURL(u) {
			errs = append(errs, fmt.Sprintf("Invalid URL format for image at index %d", i))
		}
	}
	for i, u := range p.Videos {
		if !isValidURL(u) {
			errs = append(errs, fmt.Sprintf("Invalid URL format for video at index %d", i))
		}
	}
	if !oneOf(p.ReraStatus, ReraApplied, ReraApproved) {
		errs = append(errs, "RERA status must be either Rera Applied or Rera Approved")
	}
	if p.ReraStatus == ReraApproved && p.ReraNumber == "" {
		errs = append(errs, "RERA number is required for approved projects")
	}
	if !isValidDate(p.ReraCompletionDate) {
		errs = append(errs, "Valid RERA completion date is required")
	}
	if !oneOf(p.ProjectStatus, ProjectDelivered, ProjectInProgress) {
		errs = append(errs, "Project status must be either Delivered or Under Construction")
	}
	if !oneOf(p.Status, StatusActive, StatusDisable) {
		errs = append(errs, "Status must be either Active or Disable")
	}
	if p.PinCode == 0 {
		errs = append(errs, "Pin code must be an integer")
	}
	if !oneOf(p.Category, "Residential", "Commercial") {
		errs = append(errs, "Category must be either Residential or Commercial")
	}
	if !isValidDate(p.TimelineStart) {
		errs = append(errs, "Valid timeline start date is required")
	}
	if !isValidDate(p.TimelineEnd) {
		errs = append(errs, "Valid timeline end date is required")
	}
	if p.BrochureURL != "" && !isPDFURL(p.BrochureURL) {
		errs = append(errs, "Invalid brochure URL format")
	}
	if p.PriceStart <= 0 {
		errs = append(errs, "Price start must be an integer")
	}
	if p.PriceEnd <= 0 {
		errs = append(errs, "Price end must be an integer")
	}
	return errs
}
