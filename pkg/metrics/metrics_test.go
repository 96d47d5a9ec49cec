package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			customLabelsOpt := WithCustomLabels(map[string]string{"env": "test"})

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(customLabelsOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given metrics recording", t, func() {
		Convey("When updating entity gauges", func() {
			So(func() {
				UpdateActorCount(5)
				UpdateChoreCount(4)
				UpdateAssignmentCount(12)
			}, ShouldNotPanic)
		})

		Convey("When recording hierarchy outcomes", func() {
			So(func() {
				RecordValidationRejected("cycle")
				RecordValidationRejected("nesting_depth")
				RecordMemberAdded()
			}, ShouldNotPanic)
		})

		Convey("When recording board outcomes", func() {
			So(func() {
				RecordBoardRejection("capacity")
				RecordBoardRejection("duplicate")
				RecordBoardMove()
				RecordBoardClear()
				RecordRotationApplied()
			}, ShouldNotPanic)
		})

		Convey("When recording cascades and store latency", func() {
			So(func() {
				RecordCascadeDelete("actor")
				RecordCascadeDelete("chore")
				RecordStoreOpLatency("insert_actor", 0.3)
			}, ShouldNotPanic)
		})

		Convey("When recording HTTP metrics", func() {
			So(func() {
				RecordHTTPRequest("/board", "GET", "200")
				RecordHTTPRequestDuration("/board", "GET", "200", 5.0)
			}, ShouldNotPanic)
		})
	})
}

func TestGetRegistry(t *testing.T) {
	Convey("Given the global registry", t, func() {
		registry := GetRegistry()
		So(registry, ShouldNotBeNil)

		Convey("Then the global metrics are gatherable", func() {
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			So(families, ShouldNotBeEmpty)
		})
	})
}
