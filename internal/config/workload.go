// Package config loads and defaults the workload property bag (spec.md
// §6): a YCSB-style "key=value" file, parsed with
// github.com/magiconair/properties (grounded on the go-ycsb-derived
// trace-replay workload in the retrieved corpus, which parses the same
// format with the same library), overridable per-key by environment
// variables in the teacher's getenv(key, default) style.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// Error is a configuration error: an unknown distribution name, weights
// summing to zero, or any other malformed option. Per spec.md §7 these
// are reported at init and abort the phase — never a panic, unlike the
// allocator's programmer-error preconditions.
type Error struct {
	Option string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: option %q: %s", e.Option, e.Reason)
}

// Workload is the fully resolved, defaulted view of every recognized
// option in spec.md §6, plus the additions in SPEC_FULL.md §6.
type Workload struct {
	RecordCount    uint64 `yaml:"recordcount"`
	OperationCount uint64 `yaml:"operationcount"`
	ThreadCount    int    `yaml:"threadcount"`

	FieldCount              int    `yaml:"fieldcount"`
	FieldLength             int    `yaml:"fieldlength"`
	FieldLengthDistribution string `yaml:"fieldlengthdistribution"`
	ReadAllFields           bool   `yaml:"readallfields"`
	WriteAllFields          bool   `yaml:"writeallfields"`

	ReadProportion            float64 `yaml:"readproportion"`
	UpdateProportion          float64 `yaml:"updateproportion"`
	InsertProportion          float64 `yaml:"insertproportion"`
	ScanProportion            float64 `yaml:"scanproportion"`
	ReadModifyWriteProportion float64 `yaml:"readmodifywriteproportion"`

	RequestDistribution    string `yaml:"requestdistribution"`
	MaxScanLength          int    `yaml:"maxscanlength"`
	ScanLengthDistribution string `yaml:"scanlengthdistribution"`

	InsertOrder string `yaml:"insertorder"`
	ZeroPadding int    `yaml:"zeropadding"`
	InsertStart uint64 `yaml:"insertstart"`
	Table       string `yaml:"table"`

	// Additions beyond spec.md's table (SPEC_FULL.md §6).
	BatchSize uint64 `yaml:"workload.batchsize"`
	Seed      uint64 `yaml:"ycsbgen.seed"`
	LogFormat string `yaml:"ycsbgen.logformat"`
}

// defaults mirrors spec.md §6's defaults column. recordcount,
// operationcount and threadcount have no default and stay at zero unless
// set: Validate rejects a zero recordcount or threadcount, and a zero
// operationcount skips the run phase. The operation proportions default to
// YCSB's read-mostly mix (0.95 read, 0.05 update).
func defaults() Workload {
	return Workload{
		ReadProportion:          0.95,
		UpdateProportion:        0.05,
		FieldCount:              10,
		FieldLength:              100,
		FieldLengthDistribution: "constant",
		RequestDistribution:     "uniform",
		MaxScanLength:           1000,
		ScanLengthDistribution:  "uniform",
		InsertOrder:             "ordered",
		ZeroPadding:             1,
		InsertStart:             0,
		Table:                   "usertable",
		BatchSize:               1000,
		LogFormat:               "console",
	}
}

// Load reads a workload file at path, applies spec.md §6 defaults,
// applies YCSBGEN_-prefixed environment variable overrides, and
// validates the result.
func Load(path string) (*Workload, error) {
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("config: loading %s: %w", path, err)
	}
	return FromProperties(props)
}

// FromProperties builds a Workload from an already-loaded properties.Properties,
// applying defaults, environment overrides, and validation. Exposed
// separately from Load so callers (and tests) can build a Properties set
// in memory without a file on disk.
func FromProperties(props *properties.Properties) (*Workload, error) {
	w := defaults()

	getString := func(key, cur string) string { return props.GetString(key, cur) }
	getInt := func(key string, cur int) int { return props.GetInt(key, cur) }
	getUint := func(key string, cur uint64) uint64 { return uint64(props.GetInt64(key, int64(cur))) }
	getBool := func(key string, cur bool) bool { return props.GetBool(key, cur) }
	getFloat := func(key string, cur float64) float64 { return props.GetFloat64(key, cur) }

	w.RecordCount = getUint("recordcount", w.RecordCount)
	w.OperationCount = getUint("operationcount", w.OperationCount)
	w.ThreadCount = getInt("threadcount", w.ThreadCount)

	w.FieldCount = getInt("fieldcount", w.FieldCount)
	w.FieldLength = getInt("fieldlength", w.FieldLength)
	w.FieldLengthDistribution = getString("fieldlengthdistribution", w.FieldLengthDistribution)
	w.ReadAllFields = getBool("readallfields", w.ReadAllFields)
	w.WriteAllFields = getBool("writeallfields", w.WriteAllFields)

	w.ReadProportion = getFloat("readproportion", w.ReadProportion)
	w.UpdateProportion = getFloat("updateproportion", w.UpdateProportion)
	w.InsertProportion = getFloat("insertproportion", w.InsertProportion)
	w.ScanProportion = getFloat("scanproportion", w.ScanProportion)
	w.ReadModifyWriteProportion = getFloat("readmodifywriteproportion", w.ReadModifyWriteProportion)

	w.RequestDistribution = getString("requestdistribution", w.RequestDistribution)
	w.MaxScanLength = getInt("maxscanlength", w.MaxScanLength)
	w.ScanLengthDistribution = getString("scanlengthdistribution", w.ScanLengthDistribution)

	w.InsertOrder = getString("insertorder", w.InsertOrder)
	w.ZeroPadding = getInt("zeropadding", w.ZeroPadding)
	w.InsertStart = getUint("insertstart", w.InsertStart)
	w.Table = getString("table", w.Table)

	w.BatchSize = getUint("workload.batchsize", w.BatchSize)
	w.Seed = getUint("ycsbgen.seed", w.Seed)
	w.LogFormat = getString("ycsbgen.logformat", w.LogFormat)

	applyEnvOverrides(&w)

	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// envPrefix is prepended to every Workload field's upper-cased yaml tag to
// form its environment variable override name ("." becomes "_", and the
// "ycsbgen." tags drop that part: YCSBGEN_SEED, YCSBGEN_LOGFORMAT) — the teacher's
// getenv(key, default) idea (cmd/node/main.go, cmd/coordinator/main.go),
// generalized from a fixed handful of env vars to every workload option.
const envPrefix = "YCSBGEN_"

func applyEnvOverrides(w *Workload) {
	overrideUint(&w.RecordCount, "RECORDCOUNT")
	overrideUint(&w.OperationCount, "OPERATIONCOUNT")
	overrideInt(&w.ThreadCount, "THREADCOUNT")
	overrideInt(&w.FieldCount, "FIELDCOUNT")
	overrideInt(&w.FieldLength, "FIELDLENGTH")
	overrideString(&w.FieldLengthDistribution, "FIELDLENGTHDISTRIBUTION")
	overrideBool(&w.ReadAllFields, "READALLFIELDS")
	overrideBool(&w.WriteAllFields, "WRITEALLFIELDS")
	overrideFloat(&w.ReadProportion, "READPROPORTION")
	overrideFloat(&w.UpdateProportion, "UPDATEPROPORTION")
	overrideFloat(&w.InsertProportion, "INSERTPROPORTION")
	overrideFloat(&w.ScanProportion, "SCANPROPORTION")
	overrideFloat(&w.ReadModifyWriteProportion, "READMODIFYWRITEPROPORTION")
	overrideString(&w.RequestDistribution, "REQUESTDISTRIBUTION")
	overrideInt(&w.MaxScanLength, "MAXSCANLENGTH")
	overrideString(&w.ScanLengthDistribution, "SCANLENGTHDISTRIBUTION")
	overrideString(&w.InsertOrder, "INSERTORDER")
	overrideInt(&w.ZeroPadding, "ZEROPADDING")
	overrideUint(&w.InsertStart, "INSERTSTART")
	overrideString(&w.Table, "TABLE")
	overrideUint(&w.BatchSize, "WORKLOAD_BATCHSIZE")
	overrideUint(&w.Seed, "SEED")
	overrideString(&w.LogFormat, "LOGFORMAT")
}

func envValue(suffix string) (string, bool) {
	v := os.Getenv(envPrefix + suffix)
	return v, v != ""
}

func overrideString(dst *string, suffix string) {
	if v, ok := envValue(suffix); ok {
		*dst = v
	}
}

func overrideBool(dst *bool, suffix string) {
	if v, ok := envValue(suffix); ok {
		*dst = strings.EqualFold(v, "true") || v == "1"
	}
}

func overrideInt(dst *int, suffix string) {
	if v, ok := envValue(suffix); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideUint(dst *uint64, suffix string) {
	if v, ok := envValue(suffix); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func overrideFloat(dst *float64, suffix string) {
	if v, ok := envValue(suffix); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

// Validate checks the configuration-error conditions spec.md §7 names:
// unknown distribution names and operation weights summing to zero,
// plus the minimal structural requirements (positive record, thread and
// field counts, a positive batch size, a recognized insert order).
func (w *Workload) Validate() error {
	if w.RecordCount == 0 {
		return &Error{Option: "recordcount", Reason: "must be > 0"}
	}
	if w.ThreadCount <= 0 {
		return &Error{Option: "threadcount", Reason: "must be > 0"}
	}
	if w.FieldCount <= 0 {
		return &Error{Option: "fieldcount", Reason: "must be > 0"}
	}
	if w.BatchSize == 0 {
		return &Error{Option: "workload.batchsize", Reason: "must be > 0"}
	}

	switch w.FieldLengthDistribution {
	case "constant", "uniform", "zipfian":
	default:
		return &Error{Option: "fieldlengthdistribution", Reason: "unknown distribution " + strconv.Quote(w.FieldLengthDistribution)}
	}
	switch w.ScanLengthDistribution {
	case "uniform", "zipfian":
	default:
		return &Error{Option: "scanlengthdistribution", Reason: "unknown distribution " + strconv.Quote(w.ScanLengthDistribution)}
	}
	switch w.RequestDistribution {
	case "uniform", "zipfian", "latest":
	default:
		return &Error{Option: "requestdistribution", Reason: "unknown distribution " + strconv.Quote(w.RequestDistribution)}
	}
	switch w.InsertOrder {
	case "ordered", "hashed":
	default:
		return &Error{Option: "insertorder", Reason: "must be \"ordered\" or \"hashed\", got " + strconv.Quote(w.InsertOrder)}
	}

	weightSum := w.ReadProportion + w.UpdateProportion + w.InsertProportion + w.ScanProportion + w.ReadModifyWriteProportion
	if weightSum <= 0 {
		return &Error{Option: "operation proportions", Reason: fmt.Sprintf("must sum to a positive value, got %g", weightSum)}
	}

	return nil
}

// Dump marshals the fully resolved configuration to YAML, for operators
// who want to archive exactly what a run used. This is an ambient
// convenience (see DESIGN.md) — it carries no generator semantics.
func (w *Workload) Dump() ([]byte, error) {
	return yaml.Marshal(w)
}
