package models

// treatments is the clinic's service catalog. The booking form offers
// exactly these; anything else is rejected at the boundary.
var treatments = []string{
	"general-checkup",
	"teeth-cleaning",
	"teeth-whitening",
	"dental-fillings",
	"root-canal",
	"dental-implants",
	"braces",
	"dental-crown",
	"tooth-extraction",
	"dentures",
	"gum-treatment",
	"pediatric-dentistry",
	"other",
}

// Treatments returns the catalog of bookable services.
func Treatments() []string {
	out := make([]string, len(treatments))
	copy(out, treatments)
	return out
}

// ValidTreatment reports whether the service name is in the catalog.
func ValidTreatment(service string) bool {
	for _, t := range treatments {
		if t == service {
			return true
		}
	}
	return false
}
