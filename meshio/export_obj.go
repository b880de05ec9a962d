package meshio

import (
	"fmt"
	"io"

	"github.com/voxelforge/voxelforge/mesher"
)

// ExportChunkObj writes a meshed chunk as wavefront obj, one object per
// material surface. The v texture coordinate is flipped since obj uses
// a bottom-left origin.
func ExportChunkObj(_w io.Writer, out *mesher.Output, name string) error {
	w := func(format string, args ...interface{}) {
		_w.Write(([]byte)(fmt.Sprintf(format+"\n", args...)))
	}

	w("# %s", name)

	for materialID := range out.Surfaces {
		surface := &out.Surfaces[materialID]
		if surface.IsEmpty() {
			continue
		}
		for _, p := range surface.Positions {
			w("v %f %f %f", p[0], p[1], p[2])
		}
		for _, uv := range surface.UVs {
			w("vt %f %f", uv[0], 1.0-uv[1])
		}
		for _, n := range surface.Normals {
			w("vn %f %f %f", n[0], n[1], n[2])
		}
	}

	iV := 1
	for materialID := range out.Surfaces {
		surface := &out.Surfaces[materialID]
		if surface.IsEmpty() {
			continue
		}
		w("o material%.2d", materialID)

		haveUV := len(surface.UVs) != 0

		for i := 0; i+2 < len(surface.Indices); i += 3 {
			indices := surface.Indices[i : i+3]
			if haveUV {
				w("f %v/%v/%v %v/%v/%v %v/%v/%v",
					iV+indices[0], iV+indices[0], iV+indices[0],
					iV+indices[1], iV+indices[1], iV+indices[1],
					iV+indices[2], iV+indices[2], iV+indices[2])
			} else {
				w("f %v//%v %v//%v %v//%v",
					iV+indices[0], iV+indices[0],
					iV+indices[1], iV+indices[1],
					iV+indices[2], iV+indices[2])
			}
		}

		iV += len(surface.Positions)
	}

	return nil
}
