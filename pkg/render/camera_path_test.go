package render

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/pinhole/pkg/math3d"
)

func createTestPath(t *testing.T) *CameraPath {
	t.Helper()
	var path CameraPath
	cam := createTestCamera(t)
	for range 3 {
		path.Append(cam)
		cam.RevolveLeftRight(math3d.Zero3(), 30)
		cam.Zoom(0.1)
	}
	return &path
}

func TestCameraPathRoundTrip(t *testing.T) {
	path := createTestPath(t)

	var buf bytes.Buffer
	if _, err := path.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "3\n") {
		t.Errorf("output starts with %q, want camera count", buf.String()[:4])
	}

	got, err := ReadCameraPath(&buf)
	if err != nil {
		t.Fatalf("ReadCameraPath: %v", err)
	}
	if got.Len() != path.Len() {
		t.Fatalf("Len = %d, want %d", got.Len(), path.Len())
	}

	p := math3d.V3(3, -4, 5)
	for i := range path.Len() {
		want, wantOK := path.At(i).Project(p)
		q, ok := got.At(i).Project(p)
		if ok != wantOK || !q.ApproxEqual(want, 1e-9) {
			t.Errorf("camera %d projects to %v (%v), want %v (%v)", i, q, ok, want, wantOK)
		}
	}
}

func TestCameraPathFile(t *testing.T) {
	path := createTestPath(t)
	file := filepath.Join(t.TempDir(), "path.txt")

	if err := path.SaveFile(file); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadCameraPath(file)
	if err != nil {
		t.Fatalf("LoadCameraPath: %v", err)
	}
	if got.Len() != 3 {
		t.Errorf("Len = %d, want 3", got.Len())
	}
}

func TestReadCameraPathErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"truncated", "1\n1 0 0 0 -1 0"},
		{"singular basis", "1\n1 0 0 2 0 0 0 0 1 0 0 0 10 10\n"},
		{"negative count", "-1\n"},
		{"huge count", "999999999999999999\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCameraPath(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadCameraPathMissing(t *testing.T) {
	if _, err := LoadCameraPath("/nonexistent/path.txt"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCameraPathSample(t *testing.T) {
	path := createTestPath(t)

	start, err := path.Sample(0)
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if *start != *path.At(0) {
		t.Error("Sample(0) differs from first camera")
	}
	end, _ := path.Sample(1)
	if *end != *path.At(2) {
		t.Error("Sample(1) differs from last camera")
	}
	mid, _ := path.Sample(0.5)
	if *mid != *path.At(1) {
		t.Error("Sample(0.5) differs from the middle key camera")
	}

	if _, err := (&CameraPath{}).Sample(0.5); err == nil {
		t.Error("expected error for empty path")
	}
}
