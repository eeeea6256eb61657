package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type jsonDocument struct {
	Generator   string      `json:"generator"`
	Created     time.Time   `json:"created"`
	Root        string      `json:"root"`
	Scanned     int         `json:"scanned"`
	Reclaimable int64       `json:"reclaimable_bytes"`
	Digest      string      `json:"digest,omitempty"`
	Groups      []jsonGroup `json:"groups"`
	Skipped     []jsonSkip  `json:"skipped"`
}

type jsonGroup struct {
	Digest string   `json:"digest"`
	Size   int64    `json:"size"`
	Paths  []string `json:"paths"`
}

type jsonSkip struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// WriteJSON renders the report as an indented JSON document.
func WriteJSON(w io.Writer, r *Report) error {
	created := r.Created
	if created.IsZero() {
		created = time.Now()
	}

	doc := jsonDocument{
		Generator:   "dupfind",
		Created:     created,
		Root:        r.Root,
		Scanned:     r.Scanned,
		Reclaimable: Reclaimable(r.Groups),
		Digest:      r.Digest,
		Groups:      make([]jsonGroup, 0, len(r.Groups)),
		Skipped:     make([]jsonSkip, 0, len(r.Skipped)),
	}
	for _, g := range r.Groups {
		doc.Groups = append(doc.Groups, jsonGroup{
			Digest: g.Fingerprint.Digest,
			Size:   g.Fingerprint.Size,
			Paths:  g.Paths(),
		})
	}
	for _, s := range r.Skipped {
		skip := jsonSkip{Path: s.Path, Kind: s.Kind.String()}
		if s.Err != nil {
			skip.Error = s.Err.Error()
		}
		doc.Skipped = append(doc.Skipped, skip)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
