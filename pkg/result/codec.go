package result

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/ogulcanaydogan/benchmark-result-client/internal/canon"
	"github.com/ogulcanaydogan/benchmark-result-client/pkg/schema"
)

// wireRecord is the encoded shape. Field names are part of the contract
// with the remote authority and must not change.
type wireRecord struct {
	ArxivID   *string            `json:"arxiv_id,omitempty"`
	ConfigKey string             `json:"config_key"`
	Dataset   *string            `json:"dataset,omitempty"`
	Extra     map[string]any     `json:"extra,omitempty"`
	Model     *string            `json:"model,omitempty"`
	Results   map[string]float64 `json:"results"`
	Task      *string            `json:"task,omitempty"`
}

// Encode renders the record as canonical JSON: keys sorted at every level,
// absent optionals omitted, metric values in the shortest decimal form that
// round-trips float64 exactly. Identical logical content always encodes to
// identical bytes.
func Encode(r *Record) ([]byte, error) {
	wire := map[string]any{
		"config_key": r.configKey,
		"results":    r.metrics.Map(),
	}
	if r.model.set {
		wire["model"] = r.model.value
	}
	if r.dataset.set {
		wire["dataset"] = r.dataset.value
	}
	if r.task.set {
		wire["task"] = r.task.value
	}
	if r.arxivID.set {
		wire["arxiv_id"] = r.arxivID.value
	}
	if r.extra != nil {
		wire["extra"] = r.extra
	}
	return canon.MarshalCanonical(wire)
}

// Decode parses an encoded record and runs the full construction-time
// validation; a payload that could not have been produced from a valid
// record fails with *ValidationError. The payload's config_key must match
// the key recomputed from its own fields.
func Decode(data []byte) (*Record, error) {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, validationErrorf("payload", "not valid JSON: %v", err)
	}

	violations, err := schema.ValidateRecord(doc)
	if err != nil {
		// The document itself broke the validator; same taxonomy as any
		// other malformed payload.
		return nil, validationErrorf("payload", "%v", err)
	}
	if len(violations) > 0 {
		return nil, validationErrorf("payload", "schema: %s", strings.Join(violations, "; "))
	}

	var wire wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		// Numbers outside float64 range land here.
		return nil, validationErrorf("payload", "%v", err)
	}

	metrics, err := MetricSetFromMap(wire.Results)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, 5)
	if wire.Model != nil {
		opts = append(opts, WithModel(*wire.Model))
	}
	if wire.Dataset != nil {
		opts = append(opts, WithDataset(*wire.Dataset))
	}
	if wire.Task != nil {
		opts = append(opts, WithTask(*wire.Task))
	}
	if wire.ArxivID != nil {
		opts = append(opts, WithArxivID(*wire.ArxivID))
	}
	if wire.Extra != nil {
		opts = append(opts, WithExtra(wire.Extra))
	}
	rec, err := New(metrics, opts...)
	if err != nil {
		return nil, err
	}
	if wire.ConfigKey != rec.configKey {
		return nil, validationErrorf("config_key", "payload key %s does not match recomputed key %s", wire.ConfigKey, rec.configKey)
	}
	return rec, nil
}
