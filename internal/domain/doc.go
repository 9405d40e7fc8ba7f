// Package domain models order fulfillment: which restaurants can prepare an
// order in full, and how far each of them is from the delivery address.
//
// # Data Source
//
// Orders, restaurants, products and menu availability belong to the
// surrounding order-management system and are consumed read-only. The only
// state this service owns is the coordinate cache (the "places" table), which
// maps an address string to the coordinate returned by the geocoder.
//
// # Order Statuses
//
//	0 unprocessed | 1 accepted | 2 handed to restaurant | 3 handed to courier | 4 completed
//
// Completed orders are terminal and never participate in matching.
//
// # Matching
//
// A restaurant is a fulfillment candidate for an order iff the order's
// required-product set is a subset of the restaurant's capability set (the
// products it currently lists as available). Orders are never split across
// restaurants. An order with no products, or with a line item pointing at a
// product missing from the catalog, is a data integrity problem and gets no
// candidates at all. See [Match].
//
// # Coordinates
//
// Providers often return positions as "longitude latitude". [ParsePosition]
// is the only place that axis order is handled; every [Coordinate] in this
// package is (Lat, Lon). Conversion to [orb.Point] (which is [lon, lat])
// happens only inside [Coordinate.Point].
//
// # Distance
//
// Great-circle (haversine) distance in kilometers, rounded to two decimal
// places. A pair with an unresolved address carries an explicit unresolved
// marker instead of a number. See [Distance].
package domain
