package app

// Status is the telemetry record the mouse producer publishes to MQTT and
// the console/web/display processes consume. One record summarizes the most
// recent cycle.
type Status struct {
	DX        int8    `json:"dx"`
	DY        int8    `json:"dy"`
	Button    bool    `json:"button"`
	Connected bool    `json:"connected"`
	Sent      bool    `json:"sent"`
	SmoothX   float64 `json:"smooth_x"`
	SmoothY   float64 `json:"smooth_y"`
	Time      string  `json:"time"`
}
