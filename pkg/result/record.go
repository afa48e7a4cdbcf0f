// Package result holds the container every benchmark implementation
// produces: a validated set of metric values plus the metadata that
// identifies the model, dataset, task, and paper the values belong to.
// Records are validated eagerly and frozen on construction, carry a stable
// slot fingerprint for server-side deduplication, and encode to a canonical
// byte form.
package result

import (
	"regexp"
	"strings"

	"github.com/ogulcanaydogan/benchmark-result-client/internal/canon"
)

// arXiv identifiers since 2007: YYMM.NNNN or YYMM.NNNNN, optionally
// versioned. Syntactic check only, existence is not verified.
var arxivIDPattern = regexp.MustCompile(`^\d{4}\.\d{4,5}(v\d+)?$`)

type optionalString struct {
	value string
	set   bool
}

// Record is an immutable evaluation result: a non-empty MetricSet plus
// optional identifying metadata. Optional fields track presence explicitly;
// an absent field is never the same as an empty string.
type Record struct {
	metrics   MetricSet
	model     optionalString
	dataset   optionalString
	task      optionalString
	arxivID   optionalString
	extra     map[string]any
	configKey string
}

// Option sets an optional field on a record under construction.
type Option func(*Record)

// WithModel identifies the evaluated model.
func WithModel(model string) Option {
	return func(r *Record) { r.model = optionalString{value: model, set: true} }
}

// WithDataset names the evaluation dataset.
func WithDataset(dataset string) Option {
	return func(r *Record) { r.dataset = optionalString{value: dataset, set: true} }
}

// WithTask names the task category. Membership in the task taxonomy is
// judged by the remote authority, not locally.
func WithTask(task string) Option {
	return func(r *Record) { r.task = optionalString{value: task, set: true} }
}

// WithArxivID links the result to a paper.
func WithArxivID(id string) Option {
	return func(r *Record) { r.arxivID = optionalString{value: id, set: true} }
}

// WithExtra attaches auxiliary run configuration (batch size, input
// resolution, ...). It is preserved verbatim and ignored by acceptance
// logic and the config key.
func WithExtra(extra map[string]any) Option {
	return func(r *Record) {
		if extra == nil {
			return
		}
		copied := make(map[string]any, len(extra))
		for k, v := range extra {
			copied[k] = v
		}
		r.extra = copied
	}
}

// New validates and freezes a record. Validation is all-or-nothing: on any
// violation the record does not exist and a *ValidationError is returned.
func New(metrics MetricSet, opts ...Option) (*Record, error) {
	if metrics.Len() == 0 {
		return nil, validationErrorf("results", "at least one metric is required")
	}
	r := &Record{metrics: metrics}
	for _, opt := range opts {
		opt(r)
	}
	if r.arxivID.set && !arxivIDPattern.MatchString(r.arxivID.value) {
		return nil, validationErrorf("arxiv_id", "%q does not look like an arXiv identifier", r.arxivID.value)
	}
	key, err := slotKey(r.model, r.dataset, r.task)
	if err != nil {
		return nil, err
	}
	r.configKey = key
	return r, nil
}

// KeyForSlot computes the config key for a (model, dataset, task) slot
// without building a full record. Only the slot options are consulted.
func KeyForSlot(opts ...Option) (string, error) {
	var r Record
	for _, opt := range opts {
		opt(&r)
	}
	return slotKey(r.model, r.dataset, r.task)
}

// slotKey fingerprints the identifying triple. Values are lower-cased and
// trimmed so casing and surrounding whitespace cannot split a slot; absent
// fields hash as null, which never collides with an empty string.
func slotKey(model, dataset, task optionalString) (string, error) {
	key, _, err := canon.Fingerprint(map[string]any{
		"model":   normalizeSlotValue(model),
		"dataset": normalizeSlotValue(dataset),
		"task":    normalizeSlotValue(task),
	})
	if err != nil {
		return "", validationErrorf("config_key", "fingerprint: %v", err)
	}
	return key, nil
}

func normalizeSlotValue(v optionalString) any {
	if !v.set {
		return nil
	}
	return strings.ToLower(strings.TrimSpace(v.value))
}

// Metrics returns the record's metric set.
func (r *Record) Metrics() MetricSet { return r.metrics }

// Model returns the model name and whether it was set.
func (r *Record) Model() (string, bool) { return r.model.value, r.model.set }

// Dataset returns the dataset name and whether it was set.
func (r *Record) Dataset() (string, bool) { return r.dataset.value, r.dataset.set }

// Task returns the task name and whether it was set.
func (r *Record) Task() (string, bool) { return r.task.value, r.task.set }

// ArxivID returns the arXiv identifier and whether it was set.
func (r *Record) ArxivID() (string, bool) { return r.arxivID.value, r.arxivID.set }

// Extra returns a copy of the auxiliary configuration, or nil.
func (r *Record) Extra() map[string]any {
	if r.extra == nil {
		return nil
	}
	out := make(map[string]any, len(r.extra))
	for k, v := range r.extra {
		out[k] = v
	}
	return out
}

// ConfigKey returns the slot fingerprint the remote authority groups
// submissions by.
func (r *Record) ConfigKey() string { return r.configKey }

// Equal reports whether two records carry the same logical content.
// Metric enumeration order is not significant; extra bags compare by
// canonical fingerprint.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.configKey != o.configKey ||
		r.model != o.model ||
		r.dataset != o.dataset ||
		r.task != o.task ||
		r.arxivID != o.arxivID {
		return false
	}
	if r.metrics.Len() != o.metrics.Len() {
		return false
	}
	for _, m := range r.metrics.metrics {
		v, ok := o.metrics.Value(m.Name)
		if !ok || v != m.Value {
			return false
		}
	}
	if (r.extra == nil) != (o.extra == nil) {
		return false
	}
	if r.extra != nil {
		fa, _, errA := canon.Fingerprint(r.extra)
		fb, _, errB := canon.Fingerprint(o.extra)
		if errA != nil || errB != nil || fa != fb {
			return false
		}
	}
	return true
}
