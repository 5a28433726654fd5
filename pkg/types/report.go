package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Report records one past build attempt against a template. Reports are
// read-only history constructed from server JSON.
type Report struct {
	Filename         string    `json:"filename,omitempty"`
	RequestedVersion int       `json:"requested_version"`
	ActualVersion    int       `json:"actual_version"`
	TemplateName     string    `json:"template_name"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	ErrorMessage     string    `json:"error_message,omitempty"`
}

// WasSuccessful reports whether the build produced a PDF.
func (r Report) WasSuccessful() bool {
	return r.ErrorMessage == ""
}

type reportWire struct {
	Filename         *string `json:"filename"`
	RequestedVersion int     `json:"requested_version"`
	ActualVersion    int     `json:"actual_version"`
	TemplateName     string  `json:"template_name"`
	StartedAt        isoTime `json:"started_at"`
	FinishedAt       isoTime `json:"finished_at"`
	ErrorMessage     *string `json:"error_message"`
}

// DecodeReports parses a build-history list. Unlike templates, unknown fields
// are tolerated: the server is free to grow its history records.
func DecodeReports(data []byte) ([]Report, error) {
	var wire []reportWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode build history: %w", err)
	}

	reports := make([]Report, 0, len(wire))
	for _, w := range wire {
		if w.TemplateName == "" {
			return nil, fmt.Errorf("decode build history: %w", ErrMissingTemplateName)
		}
		r := Report{
			RequestedVersion: w.RequestedVersion,
			ActualVersion:    w.ActualVersion,
			TemplateName:     w.TemplateName,
			StartedAt:        w.StartedAt.Time,
			FinishedAt:       w.FinishedAt.Time,
		}
		if w.Filename != nil {
			r.Filename = *w.Filename
		}
		if w.ErrorMessage != nil {
			r.ErrorMessage = *w.ErrorMessage
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// isoTime accepts RFC 3339 timestamps with or without a timezone offset.
type isoTime struct {
	time.Time
}

func (t *isoTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}
