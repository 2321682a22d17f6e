// Copyright 2025 IonTide Systems GmbH
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package wire

import (
	"encoding/json"
	"fmt"
)

// JobStatus is the lifecycle state reported by the API.
type JobStatus uint8

const (
	StatusQueued JobStatus = iota
	StatusOngoing
	StatusFinished
	StatusError
	StatusCancelled

	// StatusUnknownJob is the API's reply for an identifier it no longer
	// recognizes. It is not a job state; the client layer turns it into an
	// unknown-job error before it reaches callers.
	StatusUnknownJob
)

var statusNames = [...]string{
	StatusQueued:     "queued",
	StatusOngoing:    "ongoing",
	StatusFinished:   "finished",
	StatusError:      "error",
	StatusCancelled:  "cancelled",
	StatusUnknownJob: "unknown_job_id",
}

// String implements fmt.Stringer, returning the API's status tag.
func (s JobStatus) String() string {
	if int(s) >= len(statusNames) {
		return "invalid"
	}
	return statusNames[s]
}

// Terminal reports whether no further transition can occur.
func (s JobStatus) Terminal() bool {
	return s == StatusFinished || s == StatusError || s == StatusCancelled
}

// ParseJobStatus maps an API status tag to its JobStatus.
func ParseJobStatus(tag string) (JobStatus, error) {
	for s, name := range statusNames {
		if name == tag {
			return JobStatus(s), nil
		}
	}
	return 0, fmt.Errorf("unknown job status tag %q", tag)
}

// SubmitResponse is the acknowledgment of a job submission.
type SubmitResponse struct {
	JobID string `json:"job_id"`
}

// StatusResponse is one status poll reply, a tagged variant over the five
// job states. Exactly the fields of the active variant are meaningful:
// FinishedCount while ongoing, Results when finished, Message on error.
//
// Results maps each circuit's position in the submitted batch to its shots;
// one shot is the per-qubit 0/1 readout in ascending qubit order.
type StatusResponse struct {
	Status        JobStatus
	FinishedCount int
	Results       map[int][][]uint8
	Message       string
}

// shotList marshals shots as nested 0/1 integer arrays. A bare [][]uint8
// must not reach encoding/json here: it would base64-encode every shot,
// since []uint8 is []byte.
type shotList [][]uint8

// MarshalJSON implements json.Marshaler.
func (s shotList) MarshalJSON() ([]byte, error) {
	out := make([][]int, len(s))
	for i, shot := range s {
		row := make([]int, len(shot))
		for q, state := range shot {
			row[q] = int(state)
		}
		out[i] = row
	}
	return json.Marshal(out)
}

// MarshalJSON implements json.Marshaler, emitting only the active
// variant's fields.
func (r StatusResponse) MarshalJSON() ([]byte, error) {
	tag := r.Status.String()
	switch r.Status {
	case StatusOngoing:
		return json.Marshal(struct {
			Status        string `json:"status"`
			FinishedCount int    `json:"finished_count"`
		}{tag, r.FinishedCount})
	case StatusFinished:
		results := make(map[int]shotList, len(r.Results))
		for i, shots := range r.Results {
			results[i] = shots
		}
		return json.Marshal(struct {
			Status  string           `json:"status"`
			Results map[int]shotList `json:"result"`
		}{tag, results})
	case StatusError:
		return json.Marshal(struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}{tag, r.Message})
	default:
		return json.Marshal(struct {
			Status string `json:"status"`
		}{tag})
	}
}

// UnmarshalJSON implements json.Unmarshaler. Readout values other than 0
// and 1 are rejected.
func (r *StatusResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status        string            `json:"status"`
		FinishedCount int               `json:"finished_count"`
		Results       map[int][][]uint8 `json:"result"`
		Message       string            `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status, err := ParseJobStatus(raw.Status)
	if err != nil {
		return err
	}

	out := StatusResponse{Status: status}
	switch status {
	case StatusOngoing:
		if raw.FinishedCount < 0 {
			return fmt.Errorf("negative finished_count %d", raw.FinishedCount)
		}
		out.FinishedCount = raw.FinishedCount
	case StatusFinished:
		if raw.Results == nil {
			return fmt.Errorf("finished status without result field")
		}
		for index, shots := range raw.Results {
			for s, shot := range shots {
				for q, state := range shot {
					if state > 1 {
						return fmt.Errorf("circuit %d shot %d qubit %d: readout %d is not 0 or 1", index, s, q, state)
					}
				}
			}
		}
		out.Results = raw.Results
	case StatusError:
		out.Message = raw.Message
	}
	*r = out
	return nil
}
