package catalog

import (
	"net/url"
	"time"
)

var (
	validTypologies = []string{
		"Servant Room", "Utility", "Store", "Study", "Basement",
		"Powder Room", "Puja Room", "Terrace", "FrontYard", "Backyard",
	}
	validParkingTypes = []string{"Open", "Covered", "0", "1", "2", "3", "4"}
)

// Series is a unit type offered within a tower.
type Series struct {
	ID                       string     `firestore:"-" json:"id,omitempty"`
	DeveloperID              string     `firestore:"developerId" json:"developerId"`
	ProjectID                string     `firestore:"projectId" json:"projectId"`
	TowerID                  string     `firestore:"towerId" json:"towerId"`
	SeriesName               string     `firestore:"seriesName" json:"seriesName"`
	Typology                 []string   `firestore:"typology" json:"typology"`
	ParkingTypes             []string   `firestore:"parkingTypes" json:"parkingTypes"`
	CarpetArea               int        `firestore:"carpetArea" json:"carpetArea"`
	SuperArea                int        `firestore:"superArea" json:"superArea"`
	StartingPrice            int        `firestore:"startingPrice" json:"startingPrice"`
	LayoutPlanURL            string     `firestore:"layoutPlanUrl" json:"layoutPlanUrl"`
	InsideImagesURLs         []string   `firestore:"insideImagesUrls" json:"insideImagesUrls"`
	InsideVideosURLs         []string   `firestore:"insideVideosUrls" json:"insideVideosUrls"`
	LivingRoom               string     `firestore:"livingRoom" json:"livingRoom"`
	DrawingRoom              string     `firestore:"drawingRoom" json:"drawingRoom"`
	DiningRoom               string     `firestore:"diningRoom" json:"diningRoom"`
	Kitchen                  string     `firestore:"kitchen" json:"kitchen"`
	ExitUnitDirection        string     `firestore:"exitUnitDirection" json:"exitUnitDirection"`
	MasterBedroomDirection   string     `firestore:"masterBedroomDirection" json:"masterBedroomDirection"`
	MasterBedroomDimensions  int        `firestore:"masterBedroomDimensions" json:"masterBedroomDimensions"`
	TotalBedrooms            int        `firestore:"totalBedrooms" json:"totalBedrooms"`
	TotalKitchens            int        `firestore:"totalKitchens" json:"totalKitchens"`
	TotalWashrooms           int        `firestore:"totalWashrooms" json:"totalWashrooms"`
	HasServantArea           bool       `firestore:"hasServantArea" json:"hasServantArea"`
	Status                   string     `firestore:"status" json:"status"`
	CreatedBy                string     `firestore:"createdBy" json:"createdBy"`
	CreatedOn                time.Time  `firestore:"createdOn" json:"createdOn"`
	UpdatedBy                *string    `firestore:"updatedBy" json:"updatedBy"`
	UpdatedOn                *time.Time `firestore:"updatedOn" json:"updatedOn"`
}

func (s *Series) applyForm(v url.Values) (errs []string) {
	setStr(&s.DeveloperID, v, "developerId")
	setStr(&s.ProjectID, v, "projectId")
	setStr(&s.TowerID, v, "towerId")
	setStr(&s.SeriesName, v, "seriesName")
	setList(&s.Typology, v, "typology")
	setList(&s.ParkingTypes, v, "parkingTypes")
	setInt(&s.CarpetArea, v, "carpetArea", "Carpet area", &errs)
	setInt(&s.SuperArea, v, "superArea", "Super area", &errs)
	setInt(&s.StartingPrice, v, "startingPrice", "Starting price", &errs)
	setStr(&s.LivingRoom, v, "livingRoom")
	setStr(&s.DrawingRoom, v, "drawingRoom")
	setStr(&s.DiningRoom, v, "diningRoom")
	setStr(&s.Kitchen, v, "kitchen")
	setStr(&s.ExitUnitDirection, v, "exitUnitDirection")
	setStr(&s.MasterBedroomDirection, v, "masterBedroomDirection")
	setInt(&s.MasterBedroomDimensions, v, "masterBedroomDimensions", "Master bedroom dimensions", &errs)
	setInt(&s.TotalBedrooms, v, "totalBedrooms", "Total bedrooms", &errs)
	setInt(&s.TotalKitchens, v, "totalKitchens", "Total kitchens", &errs)
	setInt(&s.TotalWashrooms, v, "totalWashrooms", "Total washrooms", &errs)
	setBool(&s.HasServantArea, v, "hasServantArea", "Servant area", &errs)
	setStr(&s.Status, v, "status")
	return errs
}

func (s *Series) Validate() []string {
	var errs []string
	if s.DeveloperID == "" {
		errs = append(errs, "Developer ID is required")
	}
	if s.ProjectID == "" {
		errs = append(errs, "Project ID is required")
	}
	if s.TowerID == "" {
		errs = append(errs, "Tower ID is required")
	}
	if s.SeriesName == "" {
		errs = append(errs, "Series name is required")
	}
	if !subsetOf(s.Typology, validTypologies...) {
		errs = append(errs, "Invalid typology selection")
	}
	if !subsetOf(s.ParkingTypes, validParkingTypes...) {
		errs = append(errs, "Invalid parking type selection")
	}
	if s.CarpetArea <= 0 {
		errs = append(errs, "Carpet area must be an integer")
	}
	if s.SuperArea <= 0 {
		errs = append(errs, "Super area must be an integer")
	}
	if s.StartingPrice <= 0 {
		errs = append(errs, "Starting price must be an integer")
	}
	if !isPDFURL(s.LayoutPlanURL) {
		errs = append(errs, "Layout plan must be a PDF file")
	}
	for _, u := range s.InsideImagesURLs {
		if !isValidURL(u) {
			errs = append(errs, "Inside images must be valid URLs")
			break
		}
	}
	for _, u := range s.InsideVideosURLs {
		if !isValidURL(u) {
			errs = append(errs, "Inside videos must be valid URLs")
			break
		}
	}
	if s.ExitUnitDirection == "" {
		errs = append(errs, "Exit unit direction is required")
	}
	if s.MasterBedroomDirection == "" {
		errs = append(errs, "Master bedroom direction is required")
	}
	if s.MasterBedroomDimensions <= 0 {
		errs = append(errs, "Master bedroom dimensions must be an integer")
	}
	if s.TotalBedrooms <= 0 {
		errs = append(errs, "Total bedrooms must be an integer")
	}
	if s.TotalKitchens <= 0 {
		errs = append(errs, "Total kitchens must be an integer")
	}
	if s.TotalWashrooms <= 0 {
		errs = append(errs, "Total washrooms must be an integer")
	}
	if !oneOf(s.Status, StatusActive, StatusDisable) {
		errs = append(errs, "Status must be either Active or Disable")
	}
	return errs
}
