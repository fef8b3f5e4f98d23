package catalog

import (
	"net/url"
	"strings"
	"testing"
)

const longText = "A premium development with landscaped greens, wide internal roads, and generous open space between towers."

func validDeveloper() Developer {
	return Developer{
		Name:              "EMAAR INDIA",
		Address:           "Sector 62, Gurugram",
		IncorporationDate: "2005-04-01",
		Description:       longText,
		WebsiteLink:       "https://www.emaar-india.com",
		LogoURL:           "https://storage.googleapis.com/b/DeveloperLogo/1-a.png",
		Status:            StatusActive,
	}
}

func TestDeveloperValidate(t *testing.T) {
	if errs := (&Developer{}).Validate(); len(errs) == 0 {
		t.Fatal("empty developer passed validation")
	}

	dev := validDeveloper()
	if errs := dev.Validate(); len(errs) != 0 {
		t.Fatalf("valid developer rejected: %v", errs)
	}

	cases := []struct {
		name   string
		mutate func(*Developer)
		want   string
	}{
		{"lowercase name", func(d *Developer) { d.Name = "Emaar India" }, "capital letters"},
		{"bad date", func(d *Developer) { d.IncorporationDate = "01-04-2005" }, "incorporation date"},
		{"short description", func(d *Developer) { d.Description = "too short" }, "at least 50"},
		{"bad website", func(d *Developer) { d.WebsiteLink = "not-a-url" }, "website link"},
		{"pdf logo", func(d *Developer) { d.LogoURL = "https://storage.googleapis.com/b/x.pdf" }, "PNG or JPG"},
		{"bad status", func(d *Developer) { d.Status = "Archived" }, "Active or Disable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dev := validDeveloper()
			tc.mutate(&dev)
			errs := dev.Validate()
			if len(errs) == 0 {
				t.Fatal("expected a validation error")
			}
			if !strings.Contains(strings.Join(errs, "; "), tc.want) {
				t.Fatalf("errors %v do not mention %q", errs, tc.want)
			}
		})
	}
}

func TestDeveloperApplyFormUppercasesName(t *testing.T) {
	var dev Developer
	form := url.Values{"name": {"emaar india"}, "incorporationDate": {"2005-04-01"}}
	if errs := dev.applyForm(form); len(errs) != 0 {
		t.Fatalf("applyForm: %v", errs)
	}
	if dev.Name != "EMAAR INDIA" {
		t.Fatalf("Name = %q, want uppercased", dev.Name)
	}
	if dev.Age <= 0 {
		t.Fatalf("Age = %d, want derived from incorporation date", dev.Age)
	}
}

func TestDeveloperApplyFormOnlyTouchesPresentFields(t *testing.T) {
	dev := validDeveloper()
	if errs := dev.applyForm(url.Values{"address": {"New address"}}); len(errs) != 0 {
		t.Fatalf("applyForm: %v", errs)
	}
	if dev.Address != "New address" {
		t.Fatalf("Address = %q", dev.Address)
	}
	if dev.Name != "EMAAR INDIA" || dev.Description != longText {
		t.Fatal("absent fields were modified")
	}
}

func validProject() Project {
	return Project{
		DeveloperID:        "dev-1",
		Name:               "Palm Heights",
		Address:            "Golf Course Road",
		GoogleMapLink:      "https://maps.google.com/?q=palm+heights",
		WhyThisProject:     longText,
		Description:        longText,
		LaunchDate:         "2024-01-15",
		ReraStatus:         ReraApplied,
		ReraCompletionDate: "2027-06-30",
		ProjectStatus:      ProjectInProgress,
		Status:             StatusActive,
		PinCode:            122001,
		Category:           "Residential",
		TimelineStart:      "2024-01-01",
		TimelineEnd:        "2027-12-31",
		PriceStart:         9000000,
		PriceEnd:           25000000,
	}
}

func TestProjectValidate(t *testing.T) {
	p := validProject()
	if errs := p.Validate(); len(errs) != 0 {
		t.Fatalf("valid project rejected: %v", errs)
	}

	p = validProject()
	p.ReraStatus = ReraApproved
	errs := p.Validate()
	if len(errs) != 1 || !strings.Contains(errs[0], "RERA number") {
		t.Fatalf("approved project without RERA number: %v", errs)
	}
	p.ReraNumber = "RERA-HR-0042"
	if errs := p.Validate(); len(errs) != 0 {
		t.Fatalf("approved project with RERA number rejected: %v", errs)
	}

	p = validProject()
	p.Images = []string{"https://storage.googleapis.com/b/a.jpg", "not a url"}
	errs = p.Validate()
	if len(errs) != 1 || !strings.Contains(errs[0], "index 1") {
		t.Fatalf("bad image URL not pinpointed: %v", errs)
	}

	p = validProject()
	p.BrochureURL = "https://storage.googleapis.com/b/brochure.jpg"
	if errs := p.Validate(); len(errs) == 0 {
		t.Fatal("non-PDF brochure accepted")
	}
}

func TestTowerValidate(t *testing.T) {
	tower := Tower{
		DeveloperID: "dev-1",
		ProjectID:   "proj-1",
		Name:        "Tower A",
		TotalFloors: 32,
		CoreCount:   2,
		TotalUnits:  128,
		Status:      StatusActive,
		TowerStatus: TowerUnderConstruction,
	}
	if errs := tower.Validate(); len(errs) != 0 {
		t.Fatalf("valid tower rejected: %v", errs)
	}
	tower.TowerStatus = "Planned"
	if errs := tower.Validate(); len(errs) == 0 {
		t.Fatal("bad tower status accepted")
	}
	tower.TowerStatus = TowerCompleted
	tower.TotalFloors = 0
	if errs := tower.Validate(); len(errs) == 0 {
		t.Fatal("zero floors accepted")
	}
}

func TestAmenityNormalizesName(t *testing.T) {
	var a Amenity
	if errs := a.applyForm(url.Values{"name": {"  Swimming Pool "}}); len(errs) != 0 {
		t.Fatalf("applyForm: %v", errs)
	}
	if a.NormalizedName != "swimming pool" {
		t.Fatalf("NormalizedName = %q", a.NormalizedName)
	}
}

func validSeries() Series {
	return Series{
		DeveloperID:             "dev-1",
		ProjectID:               "proj-1",
		TowerID:                 "tower-1",
		SeriesName:              "3BHK Corner",
		Typology:                []string{"Study", "Utility"},
		ParkingTypes:            []string{"Covered", "2"},
		CarpetArea:              1450,
		SuperArea:               1900,
		StartingPrice:           12500000,
		LayoutPlanURL:           "https://storage.googleapis.com/b/SeriesLayouts/s/1-a.pdf",
		ExitUnitDirection:       "East",
		MasterBedroomDirection:  "North-East",
		MasterBedroomDimensions: 180,
		TotalBedrooms:           3,
		TotalKitchens:           1,
		TotalWashrooms:          3,
		Status:                  StatusActive,
	}
}

func TestSeriesValidateRequiresLayoutPDF(t *testing.T) {
	sr := validSeries()
	if errs := sr.Validate(); len(errs) != 0 {
		t.Fatalf("valid series rejected: %v", errs)
	}
	sr.LayoutPlanURL = "https://storage.googleapis.com/b/layout.png"
	if errs := sr.Validate(); len(errs) == 0 {
		t.Fatal("non-PDF layout plan accepted")
	}
	sr.LayoutPlanURL = ""
	if errs := sr.Validate(); len(errs) == 0 {
		t.Fatal("missing layout plan accepted")
	}
}
