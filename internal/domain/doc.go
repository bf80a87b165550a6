// Package domain models scraped Portuguese real-estate listings and the
// transformations that turn them into a per-region average-price table.
//
// # Data Source
//
// Listings are scraped from a property portal and stored as raw text rows:
// title, price, location, rooms, date_scraped (plus a pagination column the
// scraper leaves behind, which is discarded). Every scrape run stamps its rows
// with the same date_scraped, so the table accumulates snapshots over time and
// only the most recent one is aggregated.
//
// # Portal Data Conventions
//
// Price format:
//
//	"242 500 €" or "1,250,000€": euro amounts with non-breaking-space or
//	comma thousands separators and a trailing euro sign. Listings without an
//	advertised price carry the sentinel phrase "Preço sob consulta"
//	("price on request") and are excluded entirely rather than zeroed.
//
// Location format:
//
//	"<neighborhood>, <city>, <state>": comma-separated, most specific first.
//	The neighborhood part may itself contain commas ("Alvalade, São João de
//	Brito, Lisboa, Lisboa" has a two-part neighborhood). Splitting is
//	positional from the right: last segment state, second-to-last city,
//	everything before joined back as the neighborhood. Locations with a
//	single segment are an underspecified edge case; see [SplitLocation].
//
// Rooms format:
//
//	Portuguese typology strings like "T3" or "3 quartos". The first run of
//	digits is the room count; rows without digits have no room count.
//
// # Region Naming Contract
//
// Aggregated region names must byte-for-byte match the GADM 4.1 feature
// properties NAME_1 (district), NAME_2 (municipality), NAME_3 (parish) so the
// presentation layer can join the table against the feature collection when
// drawing the choropleth. Accent or abbreviation drift between the portal and
// GADM shows up as a reconciliation mismatch counter, never as an error.
package domain
