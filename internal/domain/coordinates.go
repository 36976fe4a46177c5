package domain

// Geocoded point (longitude, latitude). Only the ORS adapter and its caches
// deal in coordinates; the simulation core never sees them.
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat], the order ORS request bodies expect.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }
