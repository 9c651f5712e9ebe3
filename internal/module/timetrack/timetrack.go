// Package timetrack records tagged time intervals.
//
// A running interval is an entry "timetrack/<tag>/<start>" with a start
// timestamp; stopping it adds the end timestamp.
package timetrack

import (
	"errors"
	"fmt"
	"time"

	"github.com/calvinalkan/pimstore/internal/module/tag"
	"github.com/calvinalkan/pimstore/pkg/store"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// Module is the store module of time tracking.
const Module = "timetrack"

// Header paths.
const (
	PathTag   = "timetrack.tag"
	PathStart = "timetrack.start"
	PathEnd   = "timetrack.end"
)

// idLayout formats the start time into the id.
const idLayout = "20060102T150405Z"

// Errors.
var (
	ErrNotStarted     = errors.New("timetrack entry has no start")
	ErrAlreadyStopped = errors.New("timetrack entry already stopped")
	ErrEndBeforeStart = errors.New("end is before start")
)

// Start opens an interval for tagName at t and returns its id.
func Start(s *store.Store, tagName string, t time.Time) (store.ID, error) {
	err := tag.Validate(tagName)
	if err != nil {
		return store.ID{}, err
	}

	t = t.UTC().Truncate(time.Second)

	id, err := s.ModuleID(Module, tagName, t.Format(idLayout))
	if err != nil {
		return store.ID{}, err
	}

	g, err := s.Create(id)
	if err != nil {
		return store.ID{}, err
	}

	h := g.Entry().Header()

	err = errors.Join(
		header.Insert(h, PathTag, header.String(tagName)),
		header.Insert(h, PathStart, header.Datetime(t)),
	)
	if err != nil {
		g.Discard()

		return store.ID{}, err
	}

	return id, g.Release()
}

// Stop closes the interval id at t.
func Stop(s *store.Store, id store.ID, t time.Time) error {
	return s.Update(id, func(e *store.Entry) error {
		start, end, stopped, err := Interval(e)
		if err != nil {
			return err
		}

		if stopped {
			return fmt.Errorf("%w: %s at %s", ErrAlreadyStopped, id, end.Format(time.RFC3339))
		}

		t = t.UTC().Truncate(time.Second)
		if t.Before(start) {
			return fmt.Errorf("%w: %s < %s", ErrEndBeforeStart, t.Format(time.RFC3339), start.Format(time.RFC3339))
		}

		return header.Insert(e.Header(), PathEnd, header.Datetime(t))
	})
}

// Interval returns the start of e and, when stopped, its end.
func Interval(e *store.Entry) (start, end time.Time, stopped bool, err error) {
	start, found, err := header.ReadDatetime(e.Header(), PathStart)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}

	if !found {
		return time.Time{}, time.Time{}, false, fmt.Errorf("%w: %s", ErrNotStarted, e.ID())
	}

	end, stopped, err = header.ReadDatetime(e.Header(), PathEnd)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}

	return start, end, stopped, nil
}

// Duration returns end minus start, or now minus start while running.
func Duration(e *store.Entry, now time.Time) (time.Duration, error) {
	start, end, stopped, err := Interval(e)
	if err != nil {
		return 0, err
	}

	if !stopped {
		end = now
	}

	return end.Sub(start), nil
}

// Running returns the ids of intervals without an end.
func Running(s *store.Store) ([]store.ID, error) {
	var running []store.ID

	for id, err := range s.RetrieveForModule(Module) {
		if err != nil {
			return nil, err
		}

		g, err := s.Retrieve(id)
		if err != nil {
			return nil, err
		}

		_, _, stopped, err := Interval(g.Entry())
		g.Discard()

		if err != nil {
			return nil, err
		}

		if !stopped {
			running = append(running, id)
		}
	}

	return running, nil
}
