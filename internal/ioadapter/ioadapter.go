// Package ioadapter deserializes the single input JSON payload into the
// domain model and serializes the result. It is the only package that
// touches the filesystem or raw JSON.
package ioadapter

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schedcu/core/internal/entity"
)

// wireShiftInstance mirrors entity.ShiftInstance but keeps timestamps as
// strings, since this domain's timestamp rules (bare "Z" suffix, explicit
// offset, or naive-as-UTC) are not what encoding/json's default time.Time
// unmarshaling implements.
type wireShiftInstance struct {
	ID            string `json:"id"`
	TemplateID    string `json:"templateId"`
	StartDateTime string `json:"startDateTime"`
	EndDateTime   string `json:"endDateTime"`
	IsOvernight   bool   `json:"isOvernight"`
	BlockEnd      string `json:"blockEnd,omitempty"`
}

type wirePayload struct {
	Project struct {
		Students       []entity.Student       `json:"students"`
		ShiftTemplates []entity.ShiftTemplate `json:"shiftTemplates"`
		ShiftTypes     []entity.ShiftType     `json:"shiftTypes"`
		Rules          entity.Rules           `json:"rules"`
	} `json:"project"`
	ShiftInstances []wireShiftInstance `json:"shiftInstances"`
}

// ReadInput reads and parses the input JSON payload at path into the domain
// model. Errors here are process-level (an unreadable file, malformed JSON,
// an unparseable shift timestamp) — the caller must not write an output
// document for them. Key presence is not checked: an absent key decodes to
// its zero value, which fails here only for a shift's start/end timestamp.
func ReadInput(path string) (entity.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entity.Input{}, fmt.Errorf("failed to read input file %q: %w", path, err)
	}

	var wire wirePayload
	if err := json.Unmarshal(data, &wire); err != nil {
		return entity.Input{}, fmt.Errorf("failed to parse input JSON: %w", err)
	}

	in := entity.Input{
		Project: entity.Project{
			Students:       wire.Project.Students,
			ShiftTemplates: wire.Project.ShiftTemplates,
			ShiftTypes:     wire.Project.ShiftTypes,
			Rules:          wire.Project.Rules,
		},
		ShiftInstances: make([]entity.ShiftInstance, len(wire.ShiftInstances)),
	}

	for idx, sh := range wire.ShiftInstances {
		start, err := ParseTimestamp(sh.StartDateTime)
		if err != nil {
			return entity.Input{}, fmt.Errorf("shift instance %q has invalid startDateTime: %w", sh.ID, err)
		}
		end, err := ParseTimestamp(sh.EndDateTime)
		if err != nil {
			return entity.Input{}, fmt.Errorf("shift instance %q has invalid endDateTime: %w", sh.ID, err)
		}

		instance := entity.ShiftInstance{
			ID:            sh.ID,
			TemplateID:    sh.TemplateID,
			StartDateTime: start,
			EndDateTime:   end,
			IsOvernight:   sh.IsOvernight,
		}
		if sh.BlockEnd != "" {
			blockEnd, err := ParseTimestamp(sh.BlockEnd)
			if err != nil {
				return entity.Input{}, fmt.Errorf("shift instance %q has invalid blockEnd: %w", sh.ID, err)
			}
			instance.BlockEnd = &blockEnd
		}
		in.ShiftInstances[idx] = instance
	}

	return in, nil
}

// ParseTimestamp parses an ISO-8601 timestamp: a trailing "Z" or an explicit
// offset is respected; a naive timestamp (no zone) is interpreted as UTC.
func ParseTimestamp(v string) (time.Time, error) {
	if strings.HasSuffix(v, "Z") {
		return time.Parse(time.RFC3339Nano, v)
	}
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	// No offset present: treat as UTC, matching the naive-timestamp rule.
	const naiveLayout = "2006-01-02T15:04:05"
	if t, err := time.Parse(naiveLayout, v); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(naiveLayout+".999999999", v); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format %q", v)
}

// WriteOutput serializes out as pretty-printed (2-space indent) JSON to
// path, replacing any prior file there.
func WriteOutput(path string, out entity.Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output JSON: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file %q: %w", path, err)
	}
	return nil
}
