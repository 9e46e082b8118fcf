package models

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/taigrr/pinhole/pkg/math3d"
)

// ErrNoPositions is returned for a .bin stream whose header says it carries
// no vertex positions.
var ErrNoPositions = errors.New("models: mesh file has no vertex positions")

// .bin layout, little endian:
//
//	int32   vertex count
//	4 bytes 'y'/'n' flags for xyz, color, normal, texcoord
//	float32 xyz[n][3], color[n][3], normal[n][3], texcoord[n][2] (present ones only)
//	int32   triangle count
//	uint32  indices[t][3]
const (
	binYes = 'y'
	binNo  = 'n'
)

// LoadBin reads a .bin mesh file.
func LoadBin(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh: %w", err)
	}
	defer f.Close()

	m, err := ReadBin(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	m.Name = filepath.Base(path)
	glog.Infof("loaded %d verts, %d tris from %s", m.VertexCount(), m.TriangleCount(), path)
	return m, nil
}

// binChunk bounds each read so a corrupt count fails on a short stream
// instead of allocating for data that is not there.
const binChunk = 1 << 16

// readChunked reads n little-endian values in chunks of at most binChunk.
func readChunked[T float32 | uint32](r io.Reader, n int) ([]T, error) {
	out := make([]T, 0, min(n, binChunk))
	for len(out) < n {
		chunk := make([]T, min(n-len(out), binChunk))
		if err := binary.Read(r, binary.LittleEndian, chunk); err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// ReadBin decodes a .bin mesh. Meshes without colors are white and meshes
// without normals get smooth normals; the Has* flags still report what the
// stream carried.
func ReadBin(r io.Reader) (*Mesh, error) {
	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read vertex count: %w", err)
	}
	if count <= 0 {
		return nil, fmt.Errorf("vertex count %d: %w", count, ErrNoPositions)
	}
	n := int(count)

	var flags [4]byte
	if _, err := io.ReadFull(r, flags[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if flags[0] != binYes {
		return nil, ErrNoPositions
	}

	// Positions come first, so the stream has proven it holds n vertices
	// before the vertex slice is allocated.
	pos, err := readChunked[float32](r, 3*n)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	m := NewMesh("")
	m.HasColors = flags[1] == binYes
	m.HasNormals = flags[2] == binYes
	m.HasTexCoords = flags[3] == binYes
	m.Vertices = make([]MeshVertex, n)
	for i := range m.Vertices {
		m.Vertices[i].Position = math3d.V3(float64(pos[3*i]), float64(pos[3*i+1]), float64(pos[3*i+2]))
	}

	vec3s := func(what string, set func(v *MeshVertex, x math3d.Vec3)) error {
		buf, err := readChunked[float32](r, 3*n)
		if err != nil {
			return fmt.Errorf("read %s: %w", what, err)
		}
		for i := range m.Vertices {
			set(&m.Vertices[i], math3d.V3(float64(buf[3*i]), float64(buf[3*i+1]), float64(buf[3*i+2])))
		}
		return nil
	}

	if m.HasColors {
		if err := vec3s("colors", func(v *MeshVertex, x math3d.Vec3) { v.Color = x }); err != nil {
			return nil, err
		}
	} else {
		for i := range m.Vertices {
			m.Vertices[i].Color = math3d.V3(1, 1, 1)
		}
	}
	if m.HasNormals {
		if err := vec3s("normals", func(v *MeshVertex, x math3d.Vec3) { v.Normal = x }); err != nil {
			return nil, err
		}
	}
	if m.HasTexCoords {
		buf, err := readChunked[float32](r, 2*n)
		if err != nil {
			return nil, fmt.Errorf("read texcoords: %w", err)
		}
		for i := range m.Vertices {
			m.Vertices[i].UV = math3d.V2(float64(buf[2*i]), float64(buf[2*i+1]))
		}
	}

	var t int32
	if err := binary.Read(r, binary.LittleEndian, &t); err != nil {
		return nil, fmt.Errorf("read triangle count: %w", err)
	}
	if t < 0 {
		return nil, fmt.Errorf("negative triangle count %d", t)
	}
	idx, err := readChunked[uint32](r, 3*int(t))
	if err != nil {
		return nil, fmt.Errorf("read triangles: %w", err)
	}
	m.Faces = make([]Face, t)
	for i := range m.Faces {
		m.Faces[i].V = [3]int{int(idx[3*i]), int(idx[3*i+1]), int(idx[3*i+2])}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	if !m.HasNormals {
		m.CalculateSmoothNormals()
		m.HasNormals = false
	}
	m.CalculateBounds()
	return m, nil
}

// WriteBin encodes m in the .bin format. Attributes are written when their
// Has* flag is set; lit colors are never stored.
func (m *Mesh) WriteBin(w io.Writer) error {
	flag := func(b bool) byte {
		if b {
			return binYes
		}
		return binNo
	}

	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	if err := binary.Write(bw, le, int32(len(m.Vertices))); err != nil {
		return err
	}
	if _, err := bw.Write([]byte{binYes, flag(m.HasColors), flag(m.HasNormals), flag(m.HasTexCoords)}); err != nil {
		return err
	}

	vec3s := func(get func(v MeshVertex) math3d.Vec3) error {
		buf := make([]float32, 0, 3*len(m.Vertices))
		for _, v := range m.Vertices {
			x := get(v)
			buf = append(buf, float32(x.X), float32(x.Y), float32(x.Z))
		}
		return binary.Write(bw, le, buf)
	}

	if err := vec3s(func(v MeshVertex) math3d.Vec3 { return v.Position }); err != nil {
		return err
	}
	if m.HasColors {
		if err := vec3s(func(v MeshVertex) math3d.Vec3 { return v.Color }); err != nil {
			return err
		}
	}
	if m.HasNormals {
		if err := vec3s(func(v MeshVertex) math3d.Vec3 { return v.Normal }); err != nil {
			return err
		}
	}
	if m.HasTexCoords {
		buf := make([]float32, 0, 2*len(m.Vertices))
		for _, v := range m.Vertices {
			buf = append(buf, float32(v.UV.X), float32(v.UV.Y))
		}
		if err := binary.Write(bw, le, buf); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, le, int32(len(m.Faces))); err != nil {
		return err
	}
	idx := make([]uint32, 0, 3*len(m.Faces))
	for _, f := range m.Faces {
		idx = append(idx, uint32(f.V[0]), uint32(f.V[1]), uint32(f.V[2]))
	}
	if err := binary.Write(bw, le, idx); err != nil {
		return err
	}
	return bw.Flush()
}

// SaveBin writes m to a .bin file.
func (m *Mesh) SaveBin(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create mesh: %w", err)
	}
	if err := m.WriteBin(f); err != nil {
		f.Close()
		return fmt.Errorf("write mesh: %w", err)
	}
	return f.Close()
}
