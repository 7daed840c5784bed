// Package extractor discovers labeled numeric metrics in collapsed page
// text and resolves the country each page describes.
package extractor

import "regexp"

// Rule binds one search pattern to its canonical output field. Rules are
// evaluated independently in declaration order: the first match per rule
// wins, and no rule short-circuits another, so one page can populate metrics
// from many rules.
type Rule struct {
	Pattern *regexp.Regexp
	Field   string
}

func rule(expr, field string) Rule {
	return Rule{
		Pattern: regexp.MustCompile(`(?i)` + expr),
		Field:   field,
	}
}

// catalog is the ordered pattern table, grouped by domain. Patterns are
// written against whitespace-collapsed page text, so a label and its
// "Stock:" qualifier may have arbitrary text between them. The field names
// are the fixed labels downstream consumers match on; renaming one is a
// breaking change.
var catalog = []Rule{
	// Manpower
	rule(`Total Population:\s*([\d,]+)`, "Total Population"),
	rule(`Available Manpower:\s*([\d,]+)`, "Available Manpower"),
	rule(`Fit-for-Service:\s*([\d,]+)`, "Fit for Service"),
	rule(`Active Personnel:\s*([\d,]+)`, "Active Personnel"),
	rule(`Reserve Personnel:\s*([\d,]+)`, "Reserve Personnel"),

	// Airpower, stock format
	rule(`Aircraft Total.*?Stock:\s*([\d,]+)`, "Total Aircraft"),
	rule(`Fighters.*?Stock:\s*([\d,]+)`, "Fighter Aircraft"),
	rule(`Attack Types.*?Stock:\s*([\d,]+)`, "Attack Aircraft"),
	rule(`Helicopters.*?Stock:\s*([\d,]+)`, "Helicopters"),
	rule(`Attack Helicopters.*?Stock:\s*([\d,]+)`, "Attack Helicopters"),
	rule(`Transports.*?Stock:\s*([\d,]+)`, "Transport Aircraft"),
	rule(`Trainers.*?Stock:\s*([\d,]+)`, "Trainer Aircraft"),
	rule(`Tanker Fleet.*?Stock:\s*([\d,]+)`, "Tanker Aircraft"),
	rule(`Special-Mission.*?Stock:\s*([\d,]+)`, "Special Mission Aircraft"),

	// Land forces, stock format
	rule(`Tanks.*?Stock:\s*([\d,]+)`, "Tanks"),
	rule(`Vehicles.*?Stock:\s*([\d,]+)`, "Armored Vehicles"),
	rule(`Self-Propelled.*?Stock:\s*([\d,]+)`, "Self-Propelled Artillery"),
	rule(`Towed Artillery.*?Stock:\s*([\d,]+)`, "Towed Artillery"),
	rule(`MLRS.*?Stock:\s*([\d,]+)`, "Rocket Projectors"),

	// Naval forces
	rule(`Total Assets:\s*([\d,]+)`, "Total Naval Assets"),
	rule(`Aircraft Carriers:\s*([\d,]+)`, "Aircraft Carriers"),
	rule(`Helicopter Carriers:\s*([\d,]+)`, "Helicopter Carriers"),
	rule(`Destroyers:\s*([\d,]+)`, "Destroyers"),
	rule(`Frigates:\s*([\d,]+)`, "Frigates"),
	rule(`Corvettes:\s*([\d,]+)`, "Corvettes"),
	rule(`Submarines:\s*([\d,]+)`, "Submarines"),
	rule(`Offshore Patrol:\s*([\d,]+)`, "Patrol Vessels"),
	rule(`Mine Warfare:\s*([\d,]+)`, "Mine Warfare"),

	// Financials
	rule(`Defense Budget:\s*\$?([\d,]+)`, "Defense Budget (USD)"),
	rule(`Purchasing Power Parity:\s*\$?([\d,]+)`, "Purchasing Power Parity (USD)"),
	rule(`Foreign Exchange/Gold:\s*\$?([\d,]+)`, "Foreign Exchange Reserves (USD)"),
	rule(`External Debt:\s*\$?([\d,]+)`, "External Debt (USD)"),

	// Geography
	rule(`Square Land Area:\s*([\d,]+)`, "Land Area (sq km)"),
	rule(`Coastline Coverage:\s*([\d,]+)`, "Coastline (km)"),
	rule(`Shared Borders:\s*([\d,]+)`, "Shared Borders (km)"),
	rule(`Waterways \(usable\):\s*([\d,]+)`, "Waterways (km)"),

	// Natural resources
	rule(`Oil Production:\s*([\d,]+)\s*bbl`, "Oil Production (bbl/day)"),
	rule(`Oil Consumption:\s*([\d,]+)\s*bbl`, "Oil Consumption (bbl/day)"),
	rule(`Oil Proven Reserves:\s*([\d,]+)`, "Proven Oil Reserves (bbl)"),
	rule(`Natural Gas Production:\s*([\d,]+)`, "Natural Gas Production"),

	// Logistics
	rule(`Labor Force:\s*([\d,]+)`, "Labor Force"),
	rule(`Merchant Marine Fleet:\s*([\d,]+)`, "Merchant Marine Fleet"),
	rule(`Ports / Trade Terminals:\s*([\d,]+)`, "Ports"),
	rule(`Airports:\s*([\d,]+)`, "Airports"),
	rule(`Roadway Coverage:\s*([\d,]+)`, "Roadway Coverage (km)"),
	rule(`Railway Coverage:\s*([\d,]+)`, "Railway Coverage (km)"),
}

// Special-purpose patterns whose value shape differs from the generic
// integer label pairs.
var (
	// "ranked N of M" yields both the rank and the total field count.
	rankPattern = regexp.MustCompile(`(?i)ranked\s+(\d+)\s+of\s+(\d+)`)

	// The power index is the one fractional metric on the page.
	powerIndexPattern = regexp.MustCompile(`PwrIndx\*?\s*(?:score\s+(?:of\s+)?)?(\d+\.\d+)`)
)
