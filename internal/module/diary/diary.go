// Package diary stores dated entries in named diaries.
//
// A diary entry lives at
//
//	diary/<name>/YYYY/MM/DDTHH:MM[:SS]
//
// with the path cut off at the id's [Accuracy]. Logs are diary entries
// flagged with "log.is_log = true".
package diary

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/calvinalkan/pimstore/internal/config"
	"github.com/calvinalkan/pimstore/pkg/store"
	"github.com/calvinalkan/pimstore/pkg/store/header"
)

// Module is the store module of diaries.
const Module = "diary"

// Header paths.
const (
	PathName  = "diary.name"
	PathDate  = "diary.date"
	PathIsLog = "log.is_log"
)

// Errors.
var (
	ErrNotDiaryID = errors.New("not a diary id")
	ErrNoDefault  = errors.New("no default diary configured")
	ErrUnknownLog = errors.New("log is not listed in log.logs")
)

// Accuracy is how much of the timestamp an id keeps.
type Accuracy uint8

// Accuracies, coarsest first.
const (
	Year Accuracy = iota
	Month
	Day
	Hour
	Minute
	Second
)

// ID is a parsed diary entry id.
type ID struct {
	Name     string
	Year     int
	Month    int
	Day      int
	Hour     int
	Minute   int
	Second   int
	Accuracy Accuracy
}

// FromTime builds the id of t in diary name.
func FromTime(name string, t time.Time, acc Accuracy) ID {
	return ID{
		Name:     name,
		Year:     t.Year(),
		Month:    int(t.Month()),
		Day:      t.Day(),
		Hour:     t.Hour(),
		Minute:   t.Minute(),
		Second:   t.Second(),
		Accuracy: acc,
	}
}

// Rel renders the store-relative path.
func (id ID) Rel() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s/%s/%04d", Module, id.Name, id.Year)

	if id.Accuracy >= Month {
		fmt.Fprintf(&b, "/%02d", id.Month)
	}

	if id.Accuracy >= Day {
		fmt.Fprintf(&b, "/%02d", id.Day)
	}

	if id.Accuracy >= Hour {
		fmt.Fprintf(&b, "T%02d", id.Hour)
	}

	if id.Accuracy >= Minute {
		fmt.Fprintf(&b, ":%02d", id.Minute)
	}

	if id.Accuracy >= Second {
		fmt.Fprintf(&b, ":%02d", id.Second)
	}

	return b.String()
}

// StoreID converts id into an id of s.
func (id ID) StoreID(s *store.Store) (store.ID, error) {
	return s.NewID(id.Rel())
}

// Time returns the timestamp, with fields below the accuracy zeroed.
func (id ID) Time() time.Time {
	month, day := 1, 1
	hour, minute, second := 0, 0, 0

	if id.Accuracy >= Month {
		month = id.Month
	}

	if id.Accuracy >= Day {
		day = id.Day
	}

	if id.Accuracy >= Hour {
		hour = id.Hour
	}

	if id.Accuracy >= Minute {
		minute = id.Minute
	}

	if id.Accuracy >= Second {
		second = id.Second
	}

	return time.Date(id.Year, time.Month(month), day, hour, minute, second, 0, time.Local)
}

// ParseID parses a store id of the diary module.
func ParseID(sid store.ID) (ID, error) {
	segs := sid.Segments()
	if len(segs) < 3 || len(segs) > 5 || segs[0] != Module {
		return ID{}, fmt.Errorf("%w: %s", ErrNotDiaryID, sid)
	}

	id := ID{Name: segs[1], Accuracy: Year}

	var err error

	id.Year, err = parseNum(segs[2], 4)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %s: year: %w", ErrNotDiaryID, sid, err)
	}

	if len(segs) >= 4 {
		id.Accuracy = Month

		id.Month, err = parseNum(segs[3], 2)
		if err != nil || id.Month < 1 || id.Month > 12 {
			return ID{}, fmt.Errorf("%w: %s: bad month", ErrNotDiaryID, sid)
		}
	}

	if len(segs) == 5 {
		err = parseDayTime(&id, segs[4])
		if err != nil {
			return ID{}, fmt.Errorf("%w: %s: %w", ErrNotDiaryID, sid, err)
		}
	}

	return id, nil
}

// parseDayTime parses "DD", "DDTHH", "DDTHH:MM" or "DDTHH:MM:SS".
func parseDayTime(id *ID, s string) error {
	dayPart, timePart, hasTime := strings.Cut(s, "T")

	day, err := parseNum(dayPart, 2)
	if err != nil || day < 1 || day > 31 {
		return errors.New("bad day")
	}

	id.Day, id.Accuracy = day, Day

	if !hasTime {
		return nil
	}

	parts := strings.Split(timePart, ":")
	if len(parts) > 3 {
		return errors.New("bad time")
	}

	limits := []int{23, 59, 59}
	fields := []*int{&id.Hour, &id.Minute, &id.Second}

	for i, p := range parts {
		n, err := parseNum(p, 2)
		if err != nil || n > limits[i] {
			return errors.New("bad time")
		}

		*fields[i] = n
	}

	id.Accuracy = Hour + Accuracy(len(parts)-1)

	return nil
}

func parseNum(s string, width int) (int, error) {
	if len(s) != width {
		return 0, fmt.Errorf("%q: want %d digits", s, width)
	}

	return strconv.Atoi(s)
}

// NewEntryAt checks out a new entry of diary name at t with accuracy acc.
// The header records the diary name and the local timestamp.
func NewEntryAt(s *store.Store, name string, t time.Time, acc Accuracy) (*store.Guard, error) {
	sid, err := FromTime(name, t, acc).StoreID(s)
	if err != nil {
		return nil, err
	}

	g, err := s.Create(sid)
	if err != nil {
		return nil, err
	}

	h := g.Entry().Header()

	err = errors.Join(
		header.Insert(h, PathName, header.String(name)),
		header.Insert(h, PathDate, header.Datetime(header.LocalDatetime(t))),
	)
	if err != nil {
		g.Discard()

		return nil, err
	}

	return g, nil
}

// NewEntryNow creates an entry for clock() at minute accuracy, falling back
// to second accuracy when an entry for that minute already exists.
func NewEntryNow(s *store.Store, name string, clock func() time.Time) (*store.Guard, error) {
	now := clock()

	g, err := NewEntryAt(s, name, now, Minute)
	if errors.Is(err, store.ErrAlreadyExists) {
		return NewEntryAt(s, name, now, Second)
	}

	return g, err
}

// Entries yields the entries of diary name. Files below the diary that do
// not parse as diary ids are skipped.
func Entries(s *store.Store, name string) iter.Seq2[ID, error] {
	return func(yield func(ID, error) bool) {
		for sid, err := range s.RetrieveForModule(Module) {
			if err != nil {
				yield(ID{}, err)

				return
			}

			id, err := ParseID(sid)
			if err != nil || id.Name != name {
				continue
			}

			if !yield(id, nil) {
				return
			}
		}
	}
}

// Names returns the names of all diaries with at least one entry, sorted.
func Names(s *store.Store) ([]string, error) {
	var names []string

	for sid, err := range s.RetrieveForModule(Module) {
		if err != nil {
			return nil, err
		}

		id, err := ParseID(sid)
		if err != nil {
			continue
		}

		if !slices.Contains(names, id.Name) {
			names = append(names, id.Name)
		}
	}

	slices.Sort(names)

	return names, nil
}

// MakeLog flags e as a log entry.
func MakeLog(e *store.Entry) error {
	return header.Insert(e.Header(), PathIsLog, header.Boolean(true))
}

// IsLog reports whether e is flagged as a log entry.
func IsLog(e *store.Entry) (bool, error) {
	v, _, err := header.ReadBool(e.Header(), PathIsLog)

	return v, err
}

// DefaultName returns "diary.default_diary" from cfg.
func DefaultName(cfg *config.Config) (string, error) {
	name := cfg.DefaultDiary()
	if name == "" {
		return "", ErrNoDefault
	}

	return name, nil
}

// LogName returns "log.default" from cfg. It must be listed in "log.logs".
func LogName(cfg *config.Config) (string, error) {
	name := cfg.DefaultLog()
	if name == "" {
		return "", fmt.Errorf("%w: log.default is not set", ErrNoDefault)
	}

	if !slices.Contains(cfg.Logs(), name) {
		return "", fmt.Errorf("%w: %s", ErrUnknownLog, name)
	}

	return name, nil
}
