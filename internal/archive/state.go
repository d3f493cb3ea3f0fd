package archive

import (
	"time"

	"github.com/flexiformal/flams-core/internal/bus"
)

// ChangeState is the pair of timestamps §3.4 tracks per file/format: when the
// output was last built, and when the source itself was last observed to
// change.
type ChangeState struct {
	LastBuilt   time.Time
	LastChanged time.Time
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func (c ChangeState) merge(o ChangeState) ChangeState {
	return ChangeState{
		LastBuilt:   maxTime(c.LastBuilt, o.LastBuilt),
		LastChanged: maxTime(c.LastChanged, o.LastChanged),
	}
}

// FileStateSummary is the per-format aggregate §4.6 describes: a count per
// bus.FileState value (Deleted < New < Stale < UpToDate) plus the max
// ChangeState across whatever contributed to the count. A single file's own
// summary has exactly one count set to 1; a directory's summary is the
// element-wise merge of its children's (§4.6: "counts sum; timestamps take
// the max").
type FileStateSummary struct {
	Counts [4]int
	Max    ChangeState
}

func singleFileStateSummary(state bus.FileState, cs ChangeState) FileStateSummary {
	var s FileStateSummary
	s.Counts[state] = 1
	s.Max = cs
	return s
}

func (s FileStateSummary) merge(o FileStateSummary) FileStateSummary {
	var out FileStateSummary
	for i := range s.Counts {
		out.Counts[i] = s.Counts[i] + o.Counts[i]
	}
	out.Max = s.Max.merge(o.Max)
	return out
}

// Total returns the number of files contributing to the summary.
func (s FileStateSummary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Worst returns the lowest (worst) FileState with a non-zero count, the
// state a directory-level rollup should report when asked "is everything
// up to date" — Deleted/New/Stale entries anywhere below drag it down.
func (s FileStateSummary) Worst() (bus.FileState, bool) {
	for state := bus.Deleted; state <= bus.UpToDate; state++ {
		if s.Counts[state] > 0 {
			return state, true
		}
	}
	return 0, false
}

// FileStates maps a build target format (e.g. "omdoc", "sms") to its
// aggregated summary, per §4.6's "FileStates (format→summary map)".
type FileStates map[string]FileStateSummary

func mergeFileStates(a, b FileStates) FileStates {
	out := make(FileStates, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if existing, ok := out[k]; ok {
			out[k] = existing.merge(v)
		} else {
			out[k] = v
		}
	}
	return out
}

func mergeAllFileStates(all []FileStates) FileStates {
	out := FileStates{}
	for _, fs := range all {
		out = mergeFileStates(out, fs)
	}
	return out
}
