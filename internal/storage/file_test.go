package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	logx "cronwatch/pkg/logx"
)

func TestOpenDispatch(t *testing.T) {
	t.Parallel()

	if st, err := Open(Config{}, logx.Nop()); err != nil || st != nil {
		t.Fatalf("Open(none) = (%v, %v), want (nil, nil)", st, err)
	}
	if st, err := Open(Config{Driver: "none"}, logx.Nop()); err != nil || st != nil {
		t.Fatalf("Open(none) = (%v, %v), want (nil, nil)", st, err)
	}
	if _, err := Open(Config{Driver: "bolt"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
	if _, err := Open(Config{Driver: "file"}, logx.Nop()); err == nil {
		t.Fatal("expected error for file driver without path")
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "matches.jsonl")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	ctx := context.Background()
	base := time.Date(2021, time.June, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := MatchEntry{
			At:         base.Add(time.Duration(i) * time.Minute),
			Rule:       "tick",
			Expression: "* * * * * *",
		}
		if i == 4 {
			e.Rule = "other"
		}
		if err := st.AppendMatch(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := st.RecentMatches(ctx, "tick", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d entries for rule tick, want 4", len(got))
	}
	for _, e := range got {
		if e.Rule != "tick" {
			t.Fatalf("unexpected rule %q", e.Rule)
		}
	}

	// limit keeps the most recent entries
	got, err = st.RecentMatches(ctx, "tick", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries with limit 2", len(got))
	}
	if want := base.Add(3 * time.Minute); !got[len(got)-1].At.Equal(want) {
		t.Fatalf("newest entry at %v, want %v", got[len(got)-1].At, want)
	}
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "matches.jsonl")
	st, err := Open(Config{Driver: "file", Path: path}, logx.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.AppendMatch(ctx, MatchEntry{At: time.Now(), Rule: "a", Expression: "* * * * *"}); err != nil {
		t.Fatal(err)
	}

	// simulate a torn write
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintln(f, `{"rule":"a","trunc`)
	f.Close()

	if err := st.AppendMatch(ctx, MatchEntry{At: time.Now(), Rule: "a", Expression: "* * * * *"}); err != nil {
		t.Fatal(err)
	}

	got, err := st.RecentMatches(ctx, "a", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2 (corrupt line skipped)", len(got))
	}
}
