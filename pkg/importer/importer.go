// Package importer merges parsed addon exports into the roster.
package importer

import (
	"fmt"

	"github.com/entrhq/wowstat/pkg/character"
	"github.com/entrhq/wowstat/pkg/logging"
	"github.com/entrhq/wowstat/pkg/savedvars"
	"github.com/entrhq/wowstat/pkg/store"
	"github.com/entrhq/wowstat/pkg/weekid"
)

// Roster is the part of the store the reconciler mutates.
type Roster interface {
	Find(realm, name string) int
	Get(index int) (*character.Character, error)
	Add(c *character.Character) error
	Update(index int, c *character.Character) error
}

// WeekSource reports the current week id.
type WeekSource interface {
	Current() string
}

// Summary counts the outcome of one merge.
type Summary struct {
	Added     int
	Updated   int
	Unchanged int

	// Stale counts drafts collected in an earlier week whose weekly
	// fields were ignored.
	Stale int

	// Failed lists keys that could not be written to the roster.
	Failed []string
}

// Changed reports whether the roster was modified.
func (s Summary) Changed() bool {
	return s.Added > 0 || s.Updated > 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d added, %d updated, %d unchanged", s.Added, s.Updated, s.Unchanged)
}

// Report is the outcome of importing one export.
type Report struct {
	Summary

	// Version is the addon version recorded in the export.
	Version string

	// Skipped lists export keys the parser could not use.
	Skipped []string
}

// Reconciler upserts drafts into a roster by realm and name. Only fields
// a draft reports are written; notes are never touched.
type Reconciler struct {
	roster Roster
	weeks  WeekSource
	log    logging.Leveled
}

// New returns a reconciler. weeks may be nil to accept every draft's
// weekly fields; log may be nil to discard diagnostics.
func New(roster Roster, weeks WeekSource, log logging.Leveled) *Reconciler {
	if log == nil {
		log = logging.Discard()
	}
	return &Reconciler{roster: roster, weeks: weeks, log: log}
}

// Merge applies drafts in order. Matching characters are updated in place
// and unmatched drafts are appended.
func (r *Reconciler) Merge(drafts []character.Draft) Summary {
	var sum Summary
	current := ""
	if r.weeks != nil {
		current = r.weeks.Current()
	}

	for i := range drafts {
		d := &drafts[i]

		includeWeekly := true
		if current != "" && d.WeekID != "" && !weekid.Equal(d.WeekID, current) {
			includeWeekly = false
			if d.HasWeekly() {
				sum.Stale++
				r.log.Debugf("ignoring weekly fields of %s from week %s (current %s)", d.Key(), d.WeekID, current)
			}
		}

		idx := r.roster.Find(d.Realm, d.Name)
		if idx == store.NotFound {
			if err := r.roster.Add(d.ToCharacter(includeWeekly)); err != nil {
				r.log.Warnf("failed to add %s: %v", d.Key(), err)
				sum.Failed = append(sum.Failed, d.Key())
				continue
			}
			sum.Added++
			continue
		}

		existing, err := r.roster.Get(idx)
		if err != nil {
			r.log.Warnf("failed to read %s: %v", d.Key(), err)
			sum.Failed = append(sum.Failed, d.Key())
			continue
		}
		if !d.ApplyTo(existing, includeWeekly) {
			sum.Unchanged++
			continue
		}
		if err := r.roster.Update(idx, existing); err != nil {
			r.log.Warnf("failed to update %s: %v", d.Key(), err)
			sum.Failed = append(sum.Failed, d.Key())
			continue
		}
		sum.Updated++
	}

	r.log.Infof("merged %d drafts: %s, %d stale", len(drafts), sum, sum.Stale)
	return sum
}

// ImportFile parses the export at path and merges it. A parse failure
// merges nothing.
func (r *Reconciler) ImportFile(path string) (Report, error) {
	res, err := savedvars.ParseFile(path)
	if err != nil {
		return Report{}, err
	}
	return r.merge(res), nil
}

// ImportContent parses export text and merges it.
func (r *Reconciler) ImportContent(text string) (Report, error) {
	res, err := savedvars.ParseContent(text)
	if err != nil {
		return Report{}, err
	}
	return r.merge(res), nil
}

func (r *Reconciler) merge(res savedvars.Result) Report {
	for _, key := range res.Skipped {
		r.log.Warnf("skipped export entry %q", key)
	}
	return Report{
		Summary: r.Merge(res.Drafts),
		Version: res.Version,
		Skipped: res.Skipped,
	}
}
