package trajectory

import (
	"bytes"
	"strings"
	"testing"

	"go.viam.com/test"
)

func TestSuggestScale(t *testing.T) {
	rows := []DepthSummaryRow{
		{FrameID: "0", Min: 0.5, Max: 4, Mean: 1.5, Median: 1.8},
		{FrameID: "1", Min: 0.5, Max: 5, Mean: 2.5, Median: 2.2},
	}
	// mean of means 2.0m at a 200cm target: scale 1.0
	got, err := SuggestScale(rows, DefaultTargetUECM)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Scale, test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, got.MeanDepth, test.ShouldAlmostEqual, 2.0, 1e-9)
	test.That(t, got.MedianDepth, test.ShouldAlmostEqual, 2.0, 1e-9)
	test.That(t, got.TargetUECM, test.ShouldEqual, 200.0)

	got, err = SuggestScale(rows, 50)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Scale, test.ShouldAlmostEqual, 0.25, 1e-9)
}

func TestSuggestScaleErrors(t *testing.T) {
	_, err := SuggestScale(nil, DefaultTargetUECM)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no rows")

	_, err = SuggestScale([]DepthSummaryRow{{FrameID: "0", Mean: -1, Median: 1}}, DefaultTargetUECM)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "positive")
}

func TestDepthSummaryRoundTrip(t *testing.T) {
	rows := []DepthSummaryRow{
		{FrameID: "0", Min: 0.25, Max: 4.5, Mean: 1.5, Median: 1.25},
		{FrameID: "1", Min: 0.5, Max: 5, Mean: 2.5, Median: 2.75},
	}
	var buf bytes.Buffer
	test.That(t, WriteDepthSummary(&buf, rows), test.ShouldBeNil)
	got, err := ReadDepthSummary(&buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldResemble, rows)
}

func TestReadDepthSummaryWideHeader(t *testing.T) {
	// the per-frame variant carries fov and raster size columns as well
	in := "frame_id,fov,height,width,depth_min,depth_max,depth_mean,depth_median\n" +
		"00000,58.5,480,640,0.5,4.0,2.0,1.9\n"
	rows, err := ReadDepthSummary(strings.NewReader(in))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rows, test.ShouldResemble, []DepthSummaryRow{
		{FrameID: "00000", Min: 0.5, Max: 4.0, Mean: 2.0, Median: 1.9},
	})
}

func TestReadDepthSummaryErrors(t *testing.T) {
	_, err := ReadDepthSummary(strings.NewReader("frame_id,depth_min\n0,1\n"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"depth_max"`)

	bad := "frame_id,depth_min,depth_max,depth_mean,depth_median\n0,a,1,1,1\n"
	_, err = ReadDepthSummary(strings.NewReader(bad))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "line 2")
}
