package model

import "time"

// TableStatus enumerates the cached occupancy flag stored on a table row.
// The flag is a cache of ground truth, not the truth itself: reconciliation
// derives the real state from active reservations and orders and corrects
// the flag when it drifts.
type TableStatus string

const (
    TableFree        TableStatus = "free"
    TableOccupied    TableStatus = "occupied"
    TableReserved    TableStatus = "reserved"
    TableUnavailable TableStatus = "unavailable"
)

// Table describes a physical seating resource on the restaurant floor.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – restaurant the table belongs to.
//  Name         – human label shown to staff ("T5", "Patio 2").
//  Capacity     – number of guests the table seats.
//  Status       – cached occupancy flag (free/occupied/reserved/unavailable).
//  IsActive     – whether the table is in service.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Table struct {
    ID           uint64      // tables.id
    RestaurantID uint64      // tables.restaurant_id
    Name         string      // tables.name
    Capacity     uint32      // tables.capacity
    Status       TableStatus // tables.status
    IsActive     bool        // tables.is_active
    CreatedAt    time.Time   // tables.created_at
    UpdatedAt    time.Time   // tables.updated_at
}
