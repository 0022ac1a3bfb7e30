package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"

	"github.com/camtraj/camtraj/trajectory"
)

func TestWriteUEPosesCSV(t *testing.T) {
	seq := trajectory.Sequence{
		{FrameID: 0, Quat: quat.Number{Real: 1}, Trans: r3.Vector{X: 1, Y: 2, Z: 3}},
	}

	var buf bytes.Buffer
	test.That(t, WriteUEPosesCSV(&buf, seq, true), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldEqual,
		"frame_id,px,py,pz,roll_deg,pitch_deg,yaw_deg\n"+
			"0,-300.000000,-100.000000,200.000000,-90.000000,0.000000,90.000000\n")
}

func TestWriteUEPosesCSVNoScale(t *testing.T) {
	seq := trajectory.Sequence{
		{FrameID: 0, Quat: quat.Number{Real: 1}, Trans: r3.Vector{X: 1, Y: 2, Z: 3}},
	}

	var buf bytes.Buffer
	test.That(t, WriteUEPosesCSV(&buf, seq, false), test.ShouldBeNil)
	test.That(t, buf.String(), test.ShouldEqual,
		"frame_id,px,py,pz,roll_deg,pitch_deg,yaw_deg\n"+
			"0,-3.000000,-1.000000,2.000000,-90.000000,0.000000,90.000000\n")
}

func TestWriteUEPosesCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ue_poses.csv")
	seq := trajectory.Sequence{
		{FrameID: 3, Quat: quat.Number{Real: 1}, Trans: r3.Vector{}},
	}
	test.That(t, WriteUEPosesCSVFile(path, seq, true), test.ShouldBeNil)

	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual,
		"frame_id,px,py,pz,roll_deg,pitch_deg,yaw_deg\n"+
			"3,0.000000,0.000000,0.000000,-90.000000,0.000000,90.000000\n")
}
