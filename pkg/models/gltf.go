package models

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/golang/glog"
	"github.com/qmuntal/gltf"
	"github.com/taigrr/pinhole/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
	DefaultColor     math3d.Vec3 // Vertex color when the file has none
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
		DefaultColor:     math3d.V3(1, 1, 1),
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.fromDocument(doc, filepath.Base(path))
}

func (l *GLTFLoader) fromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	mesh.HasNormals = true
	mesh.HasTexCoords = true
	mesh.HasColors = true

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Vertices) == 0 {
		return nil, ErrNoPositions
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if l.CalculateNormals && !mesh.HasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	glog.Infof("loaded %d verts, %d tris from %s", mesh.VertexCount(), mesh.TriangleCount(), name)
	return mesh, nil
}

// processMesh extracts geometry from a GLTF mesh. An attribute missing from
// any primitive clears the matching Has* flag for the whole mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3Accessor(doc, normIdx); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		mesh.HasNormals = mesh.HasNormals && len(normals) == len(positions)

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVec2Accessor(doc, uvIdx); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}
		mesh.HasTexCoords = mesh.HasTexCoords && len(uvs) == len(positions)

		var colors []math3d.Vec3
		if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok && doc.Accessors[colIdx].Type == gltf.AccessorVec3 {
			if colors, err = readVec3Accessor(doc, colIdx); err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
		}
		mesh.HasColors = mesh.HasColors && len(colors) == len(positions)

		baseVertex := len(mesh.Vertices)
		for i := range positions {
			v := MeshVertex{Position: positions[i], Color: l.DefaultColor}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
				v.UV = math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
			}
			if i < len(colors) {
				v.Color = colors[i]
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		if prim.Indices != nil {
			indices, err := readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{
					baseVertex + indices[i],
					baseVertex + indices[i+1],
					baseVertex + indices[i+2],
				}})
			}
		} else {
			// No indices, assume sequential triangles
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{
					baseVertex + i,
					baseVertex + i + 1,
					baseVertex + i + 2,
				}})
			}
		}
	}

	return nil
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	floats, err := readFloats(doc, accessor, 3)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		result[i] = math3d.V3(float64(floats[3*i]), float64(floats[3*i+1]), float64(floats[3*i+2]))
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	floats, err := readFloats(doc, accessor, 2)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec2, accessor.Count)
	for i := range result {
		result[i] = math3d.V2(float64(floats[2*i]), float64(floats[2*i+1]))
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	le := binary.LittleEndian
	result := make([]int, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		switch size {
		case 1:
			result[i] = int(b[0])
		case 2:
			result[i] = int(le.Uint16(b))
		default:
			result[i] = int(le.Uint32(b))
		}
	}
	return result, nil
}

// readFloats reads an accessor of n float32 components per element.
func readFloats(doc *gltf.Document, accessor *gltf.Accessor, n int) ([]float32, error) {
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}
	data, stride, err := accessorBytes(doc, accessor, 4*n)
	if err != nil {
		return nil, err
	}

	result := make([]float32, accessor.Count*n)
	for i := range accessor.Count {
		for j := range n {
			bits := binary.LittleEndian.Uint32(data[i*stride+4*j:])
			result[i*n+j] = math.Float32frombits(bits)
		}
	}
	return result, nil
}

// accessorBytes returns the accessor's bytes starting at its first element
// and the distance between elements. elemSize is the tightly packed size.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if end > len(buffer.Data) {
			return nil, 0, fmt.Errorf("accessor overruns buffer (%d > %d)", end, len(buffer.Data))
		}
	}
	return buffer.Data[start:], stride, nil
}

// LoadGLTFWithTextures loads a GLTF file and extracts embedded textures.
// Returns the mesh and a map of image index to encoded image data.
func LoadGLTFWithTextures(path string) (*Mesh, map[int][]byte, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := NewGLTFLoader().fromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	textures := make(map[int][]byte)
	for i, img := range doc.Images {
		if img.BufferView != nil {
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data != nil {
				start := bv.ByteOffset
				end := start + bv.ByteLength
				textures[i] = buf.Data[start:end]
			}
		} else if img.URI != "" {
			// External texture file
			texPath := filepath.Join(filepath.Dir(path), img.URI)
			data, err := os.ReadFile(texPath)
			if err != nil {
				glog.Warningf("skipping texture %s: %v", img.URI, err)
				continue
			}
			textures[i] = data
		}
	}

	return mesh, textures, nil
}

// LoadGLBWithTexture loads a GLB file and returns the mesh plus the first
// decodable texture, which may be nil.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	mesh, textures, err := LoadGLTFWithTextures(path)
	if err != nil {
		return nil, nil, err
	}

	for _, i := range slices.Sorted(maps.Keys(textures)) {
		data := textures[i]
		if len(data) == 0 {
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			glog.Warningf("texture %d: %v", i, err)
			continue
		}
		return mesh, img, nil
	}

	return mesh, nil, nil
}
