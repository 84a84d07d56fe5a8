// Package model defines the data structures for the KEV catalog connector.
package model

// Catalog is the KEV feed document as published upstream.
type Catalog struct {
	Title           string      `json:"title,omitempty"`
	CatalogVersion  string      `json:"catalogVersion"`
	DateReleased    string      `json:"dateReleased"`
	Count           int         `json:"count"`
	Vulnerabilities []KEVRecord `json:"vulnerabilities"`
}

// CatalogMetadata is the catalog-level metadata attached to every record
// by the fetcher so downstream stages need no separate lookup.
type CatalogMetadata struct {
	CatalogVersion string `json:"catalog_version"`
	DateReleased   string `json:"date_released"`
	TotalCount     int    `json:"total_count"`
}

// KEVRecord is a single raw entry from the KEV feed.
type KEVRecord struct {
	CveID                      string `json:"cveID"`
	VendorProject              string `json:"vendorProject"`
	Product                    string `json:"product"`
	VulnerabilityName          string `json:"vulnerabilityName"`
	DateAdded                  string `json:"dateAdded"`
	ShortDescription           string `json:"shortDescription"`
	RequiredAction             string `json:"requiredAction"`
	DueDate                    string `json:"dueDate"`
	KnownRansomwareCampaignUse string `json:"knownRansomwareCampaignUse"`
	Notes                      string `json:"notes"`

	// Attached by the fetcher, not part of the upstream entry
	CatalogMetadata CatalogMetadata `json:"catalog_metadata"`
}
