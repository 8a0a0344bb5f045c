package model

import "time"

// VipPackage is a purchasable (price, validity) pair. Overwriting an id
// replaces both fields; packages are never deleted.
type VipPackage struct {
	ID           uint32    `db:"id"`
	Price        int64     `db:"price"`         // native base units
	ValiditySecs int64     `db:"validity_secs"` // membership extension on purchase
	UpdatedAt    time.Time `db:"updated_at"`
}

// Validity returns the package validity as a duration.
func (p VipPackage) Validity() time.Duration {
	return time.Duration(p.ValiditySecs) * time.Second
}
