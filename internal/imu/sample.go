package imu

// GyroSample is a single gyroscope reading in rad/s.
type GyroSample struct {
	Gx float64 `json:"gx"` // angular rate about X
	Gy float64 `json:"gy"`
	Gz float64 `json:"gz"`
}

// SampleSource is anything that can provide gyro samples over time:
// the real MPU9250 source, a mock source, maybe a replay source later.
type SampleSource interface {
	Next() (GyroSample, error)
}
