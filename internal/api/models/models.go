package models

// Health check models
type HealthData struct {
	Status  string `json:"status" example:"ok" doc:"Service status"`
	Message string `json:"message" example:"API is healthy" doc:"Status message"`
}

type HealthResponse struct {
	Body HealthData
}

// Version models
type VersionData struct {
	Version   string `json:"version" example:"1.2.0" doc:"Application version"`
	GitCommit string `json:"git_commit" example:"abc1234" doc:"Git commit hash"`
	BuildDate string `json:"build_date" example:"2025-01-27T10:30:00Z" doc:"Build timestamp"`
	BuildID   string `json:"build_id" doc:"Build identifier"`
	GoVersion string `json:"go_version" example:"go1.24.11" doc:"Go toolchain version"`
	Compiler  string `json:"compiler" example:"gc" doc:"Go compiler"`
	Platform  string `json:"platform" example:"linux/arm64" doc:"Target platform"`
}

type VersionResponse struct {
	Body VersionData
}

// Status models
type CursorData struct {
	LEDIndex   int    `json:"led_index" example:"1" doc:"Index of the current sequence entry"`
	BlinkIndex int    `json:"blink_index" example:"0" doc:"Blinks already given for the current entry"`
	LED        string `json:"led" example:"red" doc:"LED the cursor points at"`
}

type StatusData struct {
	Active  bool       `json:"active" example:"true" doc:"Whether the identifier sequence is running"`
	State   string     `json:"state" example:"blinking" doc:"Controller state: idle, blinking or pausing"`
	Gesture string     `json:"gesture" example:"idle" doc:"Double-click detector state"`
	Cursor  CursorData `json:"cursor" doc:"Resume position"`
	Passes  uint64     `json:"passes" example:"3" doc:"Completed passes since start"`
}

type StatusResponse struct {
	Body StatusData
}

// Sequence models
type SequenceEntry struct {
	LED    string `json:"led" example:"yellow" doc:"LED identifier"`
	Blinks uint8  `json:"blinks" example:"7" doc:"Number of fades for this LED"`
}

type SequenceData struct {
	Entries     []SequenceEntry `json:"entries" doc:"Configured identifier sequence"`
	TotalBlinks int             `json:"total_blinks" example:"14" doc:"Blinks in one full pass"`
	Summary     string          `json:"summary" example:"yellow×7 red×2" doc:"Human-readable summary"`
}

type SequenceResponse struct {
	Body SequenceData
}

// Press models
type PressRequestData struct {
	Count int `json:"count,omitempty" minimum:"1" maximum:"2" default:"1" doc:"Number of presses to inject; 2 toggles activation"`
}

type PressRequest struct {
	Body PressRequestData
}

type PressData struct {
	Active  bool   `json:"active" doc:"Activation state after the presses"`
	Gesture string `json:"gesture" doc:"Detector state after the presses"`
}

type PressResponse struct {
	Body PressData
}
