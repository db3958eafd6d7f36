package transcription

import "io"

// AudioFile describes one local audio or video file handed to the client.
// It is supplied per call and never retained.
type AudioFile struct {
	// Name is the file name including its extension (e.g. "meeting.m4a").
	Name string
	// MIMEType is the declared media type. It may be empty or wrong.
	MIMEType string
	// Size is the content length in bytes.
	Size int64
	// Content streams the file bytes.
	Content io.Reader
}

// Request holds one submission of an AudioFile.
type Request struct {
	// File is the audio to transcribe.
	File AudioFile
	// Language is an optional language hint (e.g. "en"). Backends that
	// detect the language ignore an empty value.
	Language string
	// Model optionally overrides the backend's default model.
	Model string
}

// Result is the transcription returned by the remote service.
type Result struct {
	// Text is the full transcription text.
	Text string `json:"text"`
	// Language is the detected or requested language code.
	Language string `json:"language"`
	// Segments are the time-aligned portions of the transcript, in
	// non-decreasing start order.
	Segments []Segment `json:"segments"`
}

// Segment represents a time-aligned portion of a transcript.
type Segment struct {
	// Text is the transcribed text for this segment.
	Text string `json:"text"`
	// Start is the segment start time in seconds.
	Start float64 `json:"start"`
	// End is the segment end time in seconds.
	End float64 `json:"end"`
	// Speaker is the identified speaker label, if available.
	Speaker string `json:"speaker,omitempty"`
	// Words are the word-level sub-segments, if the service aligned them.
	Words []Word `json:"words,omitempty"`
}

// Word is a single aligned token. Timings are absent for tokens the
// aligner could not place (numbers, symbols).
type Word struct {
	Word    string   `json:"word"`
	Start   *float64 `json:"start,omitempty"`
	End     *float64 `json:"end,omitempty"`
	Score   *float64 `json:"score,omitempty"`
	Speaker string   `json:"speaker,omitempty"`
}

// FormattedSegment is a Segment prepared for display.
type FormattedSegment struct {
	Text      string  `json:"text"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Duration  float64 `json:"duration"`
	Words     []Word  `json:"words"`
}

// Health is the payload of the service health endpoint.
type Health struct {
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
	Device      string `json:"device,omitempty"`
	ComputeType string `json:"compute_type,omitempty"`
}
