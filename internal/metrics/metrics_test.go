package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JonMunkholm/racesql/internal/core"
	. "github.com/smartystreets/goconvey/convey"
)

func scrape(r *Recorder) string {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func sampleResult() *core.Result {
	return &core.Result{
		Variant: "full",
		Script: &core.Script{Sections: []core.Section{
			{Kind: core.KindCountry, Statements: []string{"a", "b"}},
			{Kind: core.KindResult, Statements: []string{"c"}},
		}},
		Conflicts:   []core.Conflict{{Kind: core.KindTeam}},
		Corrections: []core.AppliedCorrection{{Rule: "fix"}},
		Excluded:    []core.ExcludedExit{{Bib: "64"}, {Bib: "154"}},
		Duration:    15 * time.Millisecond,
	}
}

func TestRecorder(t *testing.T) {
	Convey("Given a new recorder", t, func() {
		r := NewRecorder()

		Convey("When a conversion succeeds", func() {
			r.ObserveConversion("full", sampleResult(), nil)
			out := scrape(r)

			Convey("Then outcome and per-section statements are counted", func() {
				So(out, ShouldContainSubstring, `racesql_conversions_total{status="ok",variant="full"} 1`)
				So(out, ShouldContainSubstring, `racesql_statements_total{section="country",variant="full"} 2`)
				So(out, ShouldContainSubstring, `racesql_statements_total{section="result",variant="full"} 1`)
				So(out, ShouldContainSubstring, `racesql_conflicts_total{variant="full"} 1`)
				So(out, ShouldContainSubstring, `racesql_rank_corrections_total{variant="full"} 1`)
				So(out, ShouldContainSubstring, `racesql_excluded_exits_total{variant="full"} 2`)
				So(out, ShouldContainSubstring, `racesql_conversion_duration_seconds_count{variant="full"} 1`)
			})
		})

		Convey("When a conversion fails", func() {
			r.ObserveConversion("single-stage", nil, errors.New("boom"))
			out := scrape(r)

			Convey("Then only the error outcome is counted", func() {
				So(out, ShouldContainSubstring, `racesql_conversions_total{status="error",variant="single-stage"} 1`)
				So(out, ShouldNotContainSubstring, `racesql_statements_total{section="country",variant="single-stage"}`)
			})
		})

		Convey("When scripts are executed", func() {
			r.ObserveExecution("sqlite", nil)
			r.ObserveExecution("postgres", errors.New("rejected"))
			out := scrape(r)

			Convey("Then each target and outcome is counted", func() {
				So(out, ShouldContainSubstring, `racesql_script_executions_total{status="ok",target="sqlite"} 1`)
				So(out, ShouldContainSubstring, `racesql_script_executions_total{status="error",target="postgres"} 1`)
			})
		})

		Convey("When conversions start and finish", func() {
			r.ConversionStarted()
			r.ConversionStarted()
			r.ConversionFinished()

			Convey("Then the gauge tracks occupancy", func() {
				So(scrape(r), ShouldContainSubstring, "racesql_active_conversions 1")
			})
		})

		Convey("The output carries no Go runtime collectors", func() {
			So(scrape(r), ShouldNotContainSubstring, "go_goroutines")
		})
	})
}
