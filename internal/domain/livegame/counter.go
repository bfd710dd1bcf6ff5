package livegame

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// RowKind names one counter row family.
type RowKind string

const (
	RowExits     RowKind = "exits"
	RowEntries   RowKind = "entries"
	RowShots     RowKind = "shots"
	RowTurnovers RowKind = "turnovers"
)

var rowFields = map[RowKind][]string{
	RowExits:     {"icing", "skate_out", "shootout_win", "shootout_lose", "pass"},
	RowEntries:   {"pass", "dump_win", "dump_lose", "skate"},
	RowShots:     {"on_goal", "missed", "blocked", "scoring_chance"},
	RowTurnovers: {"offensive_zone", "neutral_zone", "defensive_zone"},
}

func ParseRowKind(raw string) (RowKind, bool) {
	kind := RowKind(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := rowFields[kind]
	return kind, ok
}

// Patchable reports whether the backend exposes a patch target for the row.
func (k RowKind) Patchable() bool {
	return k == RowExits || k == RowEntries
}

// Fields lists the sub-counters of the row kind in display order.
func (k RowKind) Fields() []string {
	fields := rowFields[k]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

func (k RowKind) HasField(field string) bool {
	for _, f := range rowFields[k] {
		if f == field {
			return true
		}
	}
	return false
}

// CounterRow is an immutable bundle of non-negative sub-counters. ID is the
// backend patch target; zero means the backend has not assigned one yet.
type CounterRow struct {
	kind   RowKind
	id     int64
	values map[string]int
}

// NewCounterRow keeps only the fields known to kind, clamps negatives to zero
// and fills missing fields with zero.
func NewCounterRow(kind RowKind, id int64, values map[string]int) CounterRow {
	fields := rowFields[kind]
	row := CounterRow{kind: kind, id: id, values: make(map[string]int, len(fields))}
	for _, f := range fields {
		v := values[f]
		if v < 0 {
			v = 0
		}
		row.values[f] = v
	}
	return row
}

func (r CounterRow) Kind() RowKind { return r.kind }
func (r CounterRow) ID() int64     { return r.id }
func (r CounterRow) HasID() bool   { return r.id > 0 }

func (r CounterRow) Get(field string) (int, bool) {
	v, ok := r.values[field]
	return v, ok
}

// Values returns a copy of the sub-counters.
func (r CounterRow) Values() map[string]int {
	out := make(map[string]int, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// With returns a copy with field set to value (clamped at zero).
func (r CounterRow) With(field string, value int) (CounterRow, error) {
	if !r.kind.HasField(field) {
		return r, fmt.Errorf("unknown %s counter field %q", r.kind, field)
	}
	values := r.Values()
	if value < 0 {
		value = 0
	}
	values[field] = value
	return CounterRow{kind: r.kind, id: r.id, values: values}, nil
}

// WithID returns a copy addressed at id.
func (r CounterRow) WithID(id int64) CounterRow {
	return CounterRow{kind: r.kind, id: id, values: r.Values()}
}

func (r CounterRow) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(struct {
		ID     int64          `json:"id"`
		Kind   RowKind        `json:"kind"`
		Values map[string]int `json:"values"`
	}{ID: r.id, Kind: r.kind, Values: r.Values()})
}

// UnmarshalJSON reads the MarshalJSON shape back through NewCounterRow, so
// an unknown kind decodes to an empty row.
func (r *CounterRow) UnmarshalJSON(data []byte) error {
	var wire struct {
		ID     int64          `json:"id"`
		Kind   RowKind        `json:"kind"`
		Values map[string]int `json:"values"`
	}
	if err := sonic.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode counter row: %w", err)
	}
	*r = NewCounterRow(wire.Kind, wire.ID, wire.Values)
	return nil
}

func (r CounterRow) String() string {
	keys := make([]string, 0, len(r.values))
	for k := range r.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, r.values[k]))
	}
	return fmt.Sprintf("%s#%d{%s}", r.kind, r.id, strings.Join(parts, ","))
}

// TeamCounters holds the four counter rows of one team.
type TeamCounters struct {
	Exits     CounterRow `json:"exits"`
	Entries   CounterRow `json:"entries"`
	Shots     CounterRow `json:"shots"`
	Turnovers CounterRow `json:"turnovers"`
}

func (c TeamCounters) Row(kind RowKind) (CounterRow, bool) {
	switch kind {
	case RowExits:
		return c.Exits, true
	case RowEntries:
		return c.Entries, true
	case RowShots:
		return c.Shots, true
	case RowTurnovers:
		return c.Turnovers, true
	default:
		return CounterRow{}, false
	}
}

// WithRow returns a copy with the row of the same kind replaced.
func (c TeamCounters) WithRow(row CounterRow) TeamCounters {
	switch row.Kind() {
	case RowExits:
		c.Exits = row
	case RowEntries:
		c.Entries = row
	case RowShots:
		c.Shots = row
	case RowTurnovers:
		c.Turnovers = row
	}
	return c
}
