package analysis

import (
	"net/http"
	"strings"

	"guardian/internal/ai"
)

// RawInput is what a caller submits. At least one of ImageBytes or Text is set.
type RawInput struct {
	ImageBytes    []byte `json:"-"`
	ImageMIMEType string `json:"image_mime_type,omitempty"`
	Text          string `json:"text,omitempty"`
	// Context is optional caller-supplied background passed to detection.
	Context string `json:"context,omitempty"`
}

func (in RawInput) HasImage() bool { return len(in.ImageBytes) > 0 }

// Validate rejects inputs that must never reach the pipeline.
func (in RawInput) Validate() error {
	if !in.HasImage() && strings.TrimSpace(in.Text) == "" {
		return invalidInput("either an image or text is required")
	}
	if in.HasImage() {
		mt := in.mimeType()
		if !strings.HasPrefix(mt, "image/") && mt != "application/pdf" {
			return invalidInput("unsupported attachment type %q", mt)
		}
	}
	return nil
}

func (in RawInput) mimeType() string {
	if in.ImageMIMEType != "" {
		return in.ImageMIMEType
	}
	return http.DetectContentType(in.ImageBytes)
}

// attachment returns the image as a model attachment, or nil.
func (in RawInput) attachment() *ai.Image {
	if !in.HasImage() {
		return nil
	}
	return &ai.Image{Data: in.ImageBytes, MIMEType: in.mimeType()}
}

// DetectionResult is produced once per request and never modified afterwards.
type DetectionResult struct {
	Track           Track          `json:"track"`
	Confidence      float64        `json:"confidence"`
	Reasoning       string         `json:"reasoning"`
	ExtractedText   string         `json:"extracted_text,omitempty"`
	ExtractedFields map[string]any `json:"extracted_fields,omitempty"`
}

// SynthesizedReport is the terminal artifact of the analysis pipeline.
type SynthesizedReport struct {
	ID          string                   `json:"id,omitempty"`
	Headline    string                   `json:"headline"`
	FullText    string                   `json:"full_text"`
	ActionItems []string                 `json:"action_items"`
	VoiceText   string                   `json:"voice_text"`
	PerTrackRaw map[Track]AnalyzerOutput `json:"per_track_raw"`
}

// DocumentAnalysis is returned by the business-document surface.
type DocumentAnalysis struct {
	Detection DetectionResult   `json:"detection"`
	Report    SynthesizedReport `json:"report"`
}
