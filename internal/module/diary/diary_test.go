package diary_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/pimstore/internal/config"
	"github.com/calvinalkan/pimstore/internal/module/diary"
	"github.com/calvinalkan/pimstore/internal/testutil"
)

func Test_ID_Renders_Path_Per_Accuracy(t *testing.T) {
	t.Parallel()

	at := time.Date(2016, 4, 1, 13, 5, 9, 0, time.UTC)

	cases := map[diary.Accuracy]string{
		diary.Year:   "diary/work/2016",
		diary.Month:  "diary/work/2016/04",
		diary.Day:    "diary/work/2016/04/01",
		diary.Hour:   "diary/work/2016/04/01T13",
		diary.Minute: "diary/work/2016/04/01T13:05",
		diary.Second: "diary/work/2016/04/01T13:05:09",
	}

	s := testutil.NewStore(t)

	for acc, want := range cases {
		id := diary.FromTime("work", at, acc)
		if got := id.Rel(); got != want {
			t.Fatalf("accuracy %d: Rel=%q, want %q", acc, got, want)
		}

		sid, err := id.StoreID(s)
		if err != nil {
			t.Fatalf("StoreID(%q): %v", want, err)
		}

		back, err := diary.ParseID(sid)
		if err != nil {
			t.Fatalf("ParseID(%q): %v", want, err)
		}

		if diff := cmp.Diff(id.Rel(), back.Rel()); diff != "" || back.Accuracy != acc {
			t.Fatalf("round trip %q: accuracy=%d diff=%s", want, back.Accuracy, diff)
		}
	}
}

func Test_ParseID_Rejects_NonDiaryIDs(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)

	for _, rel := range []string{
		"notes/x/2016",
		"diary/work",
		"diary/work/16",
		"diary/work/2016/13",
		"diary/work/2016/04/01T25:00",
		"diary/work/2016/04/01T13:00:00:00",
		"diary/work/2016/04/01/extra",
	} {
		sid, err := s.NewID(rel)
		if err != nil {
			t.Fatalf("NewID(%q): %v", rel, err)
		}

		if _, err := diary.ParseID(sid); !errors.Is(err, diary.ErrNotDiaryID) {
			t.Fatalf("ParseID(%q)=%v, want ErrNotDiaryID", rel, err)
		}
	}
}

func Test_NewEntryNow_FallsBack_To_Seconds_When_MinuteTaken(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)
	clock := testutil.NewClock(time.Second)

	first, err := diary.NewEntryNow(s, "work", clock.Now)
	if err != nil {
		t.Fatal(err)
	}

	testutil.Release(t, first)

	second, err := diary.NewEntryNow(s, "work", clock.Now)
	if err != nil {
		t.Fatal(err)
	}

	testutil.Release(t, second)

	if first.ID().Rel() != "diary/work/2024/01/01T00:00" {
		t.Fatalf("first=%s", first.ID())
	}

	if second.ID().Rel() != "diary/work/2024/01/01T00:00:02" {
		t.Fatalf("second=%s", second.ID())
	}

	var got []string

	for id, err := range diary.Entries(s, "work") {
		if err != nil {
			t.Fatal(err)
		}

		got = append(got, id.Rel())
	}

	if len(got) != 2 {
		t.Fatalf("entries=%v, want 2", got)
	}

	names, err := diary.Names(s)
	if err != nil || len(names) != 1 || names[0] != "work" {
		t.Fatalf("Names=(%v,%v), want [work]", names, err)
	}
}

func Test_MakeLog_Flags_Entry(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t)

	g, err := diary.NewEntryAt(s, "default", time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC), diary.Second)
	if err != nil {
		t.Fatal(err)
	}

	defer g.Discard()

	if isLog, _ := diary.IsLog(g.Entry()); isLog {
		t.Fatal("fresh entry is a log")
	}

	if err := diary.MakeLog(g.Entry()); err != nil {
		t.Fatal(err)
	}

	if isLog, err := diary.IsLog(g.Entry()); err != nil || !isLog {
		t.Fatalf("IsLog=(%v,%v), want true", isLog, err)
	}
}

func Test_LogName_Requires_DefaultListedInLogs(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	name, err := diary.LogName(cfg)
	if err != nil || name != "default" {
		t.Fatalf("LogName=(%q,%v), want default", name, err)
	}

	if err := cfg.Override([]string{"log.default=elsewhere"}); err != nil {
		t.Fatal(err)
	}

	if _, err := diary.LogName(cfg); !errors.Is(err, diary.ErrUnknownLog) {
		t.Fatalf("err=%v, want ErrUnknownLog", err)
	}

	if err := cfg.Override([]string{"diary.default_diary="}); err != nil {
		t.Fatal(err)
	}

	if _, err := diary.DefaultName(cfg); !errors.Is(err, diary.ErrNoDefault) {
		t.Fatalf("err=%v, want ErrNoDefault", err)
	}
}
