package model

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const maxPLYListLen = 1 << 16

type plyProperty struct {
	name      string
	typ       string
	list      bool
	countType string
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

type plyHeader struct {
	format   string
	elements []plyElement
}

// plySource yields successive scalar values from the PLY body.
type plySource interface {
	next(typ string) (float64, error)
}

// ReadPLY parses ascii, binary_little_endian and binary_big_endian PLY.
// Vertex properties x y z, nx ny nz and u v (or s t, texture_u texture_v)
// are used; face index lists are fan-triangulated. Other elements are
// read and skipped.
func ReadPLY(r io.Reader) (ModelData, error) {
	br := bufio.NewReader(r)
	h, err := readPLYHeader(br)
	if err != nil {
		return ModelData{}, err
	}

	var src plySource
	switch h.format {
	case "ascii":
		sc := bufio.NewScanner(br)
		sc.Split(bufio.ScanWords)
		src = &plyASCII{sc: sc}
	case "binary_little_endian":
		src = &plyBinary{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		src = &plyBinary{r: br, order: binary.BigEndian}
	default:
		return ModelData{}, fmt.Errorf("ply: unknown format %q", h.format)
	}

	var (
		positions [][3]float32
		normals   [][3]float32
		uvs       [][2]float32
		faces     [][]int
		hasNormal bool
	)
	for _, el := range h.elements {
		for i := 0; i < el.count; i++ {
			var (
				pos, nrm [3]float32
				uv       [2]float32
				indices  []int
			)
			for _, p := range el.props {
				if p.list {
					n, err := src.next(p.countType)
					if err != nil {
						return ModelData{}, fmt.Errorf("ply %s %d: %w", el.name, i, err)
					}
					if n < 0 || n > maxPLYListLen {
						return ModelData{}, fmt.Errorf("ply %s %d: bad list length %v", el.name, i, n)
					}
					list := make([]int, int(n))
					for k := range list {
						v, err := src.next(p.typ)
						if err != nil {
							return ModelData{}, fmt.Errorf("ply %s %d: %w", el.name, i, err)
						}
						list[k] = int(v)
					}
					if p.name == "vertex_indices" || p.name == "vertex_index" {
						indices = list
					}
					continue
				}
				v, err := src.next(p.typ)
				if err != nil {
					return ModelData{}, fmt.Errorf("ply %s %d: %w", el.name, i, err)
				}
				switch p.name {
				case "x":
					pos[0] = float32(v)
				case "y":
					pos[1] = float32(v)
				case "z":
					pos[2] = float32(v)
				case "nx":
					nrm[0], hasNormal = float32(v), true
				case "ny":
					nrm[1] = float32(v)
				case "nz":
					nrm[2] = float32(v)
				case "u", "s", "texture_u":
					uv[0] = float32(v)
				case "v", "t", "texture_v":
					uv[1] = float32(v)
				}
			}
			switch el.name {
			case "vertex":
				positions = append(positions, pos)
				normals = append(normals, nrm)
				uvs = append(uvs, uv)
			case "face":
				faces = append(faces, indices)
			}
		}
	}

	var b builder
	for fi, face := range faces {
		for _, idx := range face {
			if idx < 0 || idx >= len(positions) {
				return ModelData{}, fmt.Errorf("ply face %d: vertex index %d out of range", fi, idx)
			}
		}
		for k := 1; k+1 < len(face); k++ {
			tri := [3]int{face[0], face[k], face[k+1]}
			flat := faceNormal(positions[tri[0]], positions[tri[1]], positions[tri[2]])
			for _, idx := range tri {
				n := flat
				if hasNormal {
					n = normals[idx]
				}
				b.vertex(positions[idx], n, uvs[idx])
			}
		}
	}
	return b.md, nil
}

func readPLYHeader(br *bufio.Reader) (plyHeader, error) {
	var h plyHeader
	magic, err := br.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return h, fmt.Errorf("ply: missing magic")
	}
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return h, fmt.Errorf("ply: header: %w", err)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "format":
			if len(fields) < 2 {
				return h, fmt.Errorf("ply: malformed format line")
			}
			h.format = fields[1]
		case "element":
			if len(fields) < 3 {
				return h, fmt.Errorf("ply: malformed element line %q", strings.TrimSpace(line))
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return h, fmt.Errorf("ply: bad element count %q", fields[2])
			}
			h.elements = append(h.elements, plyElement{name: fields[1], count: n})
		case "property":
			if len(h.elements) == 0 {
				return h, fmt.Errorf("ply: property before element")
			}
			el := &h.elements[len(h.elements)-1]
			switch {
			case len(fields) == 5 && fields[1] == "list":
				el.props = append(el.props, plyProperty{name: fields[4], typ: fields[3], list: true, countType: fields[2]})
			case len(fields) == 3:
				el.props = append(el.props, plyProperty{name: fields[2], typ: fields[1]})
			default:
				return h, fmt.Errorf("ply: malformed property line %q", strings.TrimSpace(line))
			}
		case "end_header":
			if h.format == "" {
				return h, fmt.Errorf("ply: missing format")
			}
			return h, nil
		}
	}
}

type plyASCII struct {
	sc *bufio.Scanner
}

func (p *plyASCII) next(string) (float64, error) {
	if !p.sc.Scan() {
		if err := p.sc.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(p.sc.Text(), 64)
}

type plyBinary struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (p *plyBinary) next(typ string) (float64, error) {
	size := plyTypeSize(typ)
	if size == 0 {
		return 0, fmt.Errorf("unknown property type %q", typ)
	}
	b := p.buf[:size]
	if _, err := io.ReadFull(p.r, b); err != nil {
		return 0, err
	}
	switch typ {
	case "char", "int8":
		return float64(int8(b[0])), nil
	case "uchar", "uint8":
		return float64(b[0]), nil
	case "short", "int16":
		return float64(int16(p.order.Uint16(b))), nil
	case "ushort", "uint16":
		return float64(p.order.Uint16(b)), nil
	case "int", "int32":
		return float64(int32(p.order.Uint32(b))), nil
	case "uint", "uint32":
		return float64(p.order.Uint32(b)), nil
	case "float", "float32":
		return float64(math.Float32frombits(p.order.Uint32(b))), nil
	default:
		return math.Float64frombits(p.order.Uint64(b)), nil
	}
}

func plyTypeSize(typ string) int {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	}
	return 0
}
