// Package snapshot implements the serialized snapshot format shared by all
// record store implementations: a single JSON document holding the full
// record set and the risk configuration.
package snapshot

import (
	"encoding/json"

	"github.com/vidya-hub/student-risk-hub/internal/domain/risk"
	"github.com/vidya-hub/student-risk-hub/internal/domain/shared"
	"github.com/vidya-hub/student-risk-hub/internal/domain/student"
)

// Envelope is the on-the-wire shape of an exported snapshot.
// Either part may be absent when importing; only present parts are applied.
type Envelope struct {
	Records []*student.Record `json:"records"`
	Config  *risk.Config      `json:"config,omitempty"`
}

// Encode serializes records and config into an indented JSON snapshot.
func Encode(records []*student.Record, cfg risk.Config) (string, error) {
	if records == nil {
		records = []*student.Record{}
	}
	env := Envelope{
		Records: records,
		Config:  &cfg,
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", shared.WrapError("store", "ExportSnapshot", shared.ErrStorage, "failed to encode snapshot", err)
	}
	return string(data), nil
}

// Decode parses a serialized snapshot. Malformed text is reported with the
// parse-error kind so callers can distinguish it from storage failures.
func Decode(data string) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return Envelope{}, shared.WrapError("store", "ImportSnapshot", shared.ErrInvalidFormat, "snapshot is not well-formed JSON", err)
	}
	return env, nil
}
