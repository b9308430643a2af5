package domain

// Region is a circular geofence as registered with the location platform.
type Region struct {
	Identifier    string  `json:"identifier"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Radius        float64 `json:"radius"`
	NotifyOnEntry bool    `json:"notify_on_entry"`
	NotifyOnExit  bool    `json:"notify_on_exit"`
}

// SameGeometry reports whether r and other describe the same registration.
func (r Region) SameGeometry(other Region) bool {
	return r.Identifier == other.Identifier &&
		r.Latitude == other.Latitude &&
		r.Longitude == other.Longitude &&
		r.Radius == other.Radius
}
