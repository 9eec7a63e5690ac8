package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/courtside/internal/adapters/csvio"
	"github.com/okian/courtside/internal/synth"
	"github.com/okian/courtside/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func writeLeague(t *testing.T, dir string) string {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}
	rows, _, err := synth.Generate(context.Background(), synth.Config{Teams: 6, Games: 10, Seasons: 2, StartYear: 2022, Seed: 3})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "league.csv")
	if err := csvio.WriteObservationsFile(path, rows, synth.Columns()); err != nil {
		t.Fatal(err)
	}
	return path
}

func lines(t *testing.T, path string) []string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(b)), "\n")
}

func TestRun(t *testing.T) {
	convey.Convey("Given a synthetic league on disk", t, func() {
		dir := t.TempDir()
		in := writeLeague(t, dir)
		out := filepath.Join(dir, "features.csv")
		var stderr bytes.Buffer

		convey.Convey("When the pipeline runs with a split directory", func() {
			splits := filepath.Join(dir, "splits")
			err := run(context.Background(), []string{"-in", in, "-out", out, "-split-dir", splits, "-workers", "2"}, &stderr)

			convey.Convey("Then the table, splits and summaries are written", func() {
				convey.So(err, convey.ShouldBeNil)
				table := lines(t, out)
				// 2 seasons x 10 rounds x 3 games, minus the 3 opening games per season.
				convey.So(len(table), convey.ShouldEqual, 1+54)
				convey.So(table[0], convey.ShouldStartWith, "GAME_ID,GAME_DATE,SEASON")

				parts := 0
				for _, name := range []string{"train.csv", "validation.csv", "test.csv"} {
					parts += len(lines(t, filepath.Join(splits, name))) - 1
				}
				convey.So(parts, convey.ShouldEqual, 54)
				convey.So(lines(t, filepath.Join(splits, "season_summary.csv")), convey.ShouldHaveLength, 3)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "run complete")
			})
		})

		convey.Convey("When the environment asks for lowercase columns", func() {
			t.Setenv("COURTSIDE_OUTPUT__LOWERCASE", "true")
			err := run(context.Background(), []string{"-in", in, "-out", out}, &stderr)

			convey.Convey("Then the header is lowercased", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(lines(t, out)[0], convey.ShouldStartWith, "game_id,game_date")
				_, statErr := os.Stat(filepath.Join(dir, "season_summary.csv"))
				convey.So(statErr, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a game is missing a side", func() {
			rows := lines(t, in)
			broken := filepath.Join(dir, "broken.csv")
			convey.So(os.WriteFile(broken, []byte(strings.Join(rows[:len(rows)-1], "\n")+"\n"), 0o600), convey.ShouldBeNil)
			err := run(context.Background(), []string{"-in", broken, "-out", out}, &stderr)

			convey.Convey("Then the run fails and writes nothing", func() {
				convey.So(err, convey.ShouldNotBeNil)
				_, statErr := os.Stat(out)
				convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an unknown layout is given", func() {
			err := run(context.Background(), []string{"-in", in, "-layout", "wide"}, &stderr)
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When help is requested", func() {
			err := run(context.Background(), []string{"-h"}, &stderr)
			convey.So(errors.Is(err, flag.ErrHelp), convey.ShouldBeTrue)
			convey.So(stderr.String(), convey.ShouldContainSubstring, "-split-dir")
		})
	})
}
