package renderer

import "math"

// Vertex layout for the panorama shell: position (x, y, z) + texture (u, v),
// 5 floats interleaved.
const vertexStride = 5

// buildSphere returns an inward-facing UV sphere. Texture u wraps with yaw
// starting at negative Z, v runs top to bottom so the image horizon sits at
// the equator.
func buildSphere(radius float32, segments int) ([]float32, []uint32) {
	latBands := segments / 2
	lonBands := segments

	verts := make([]float32, 0, (latBands+1)*(lonBands+1)*vertexStride)
	for lat := 0; lat <= latBands; lat++ {
		theta := float64(lat) * math.Pi / float64(latBands)
		sinTheta, cosTheta := math.Sin(theta), math.Cos(theta)
		for lon := 0; lon <= lonBands; lon++ {
			phi := float64(lon) * 2 * math.Pi / float64(lonBands)
			x := float32(sinTheta*math.Sin(phi)) * radius
			y := float32(cosTheta) * radius
			z := float32(-sinTheta*math.Cos(phi)) * radius
			u := float32(lon) / float32(lonBands)
			v := float32(lat) / float32(latBands)
			verts = append(verts, x, y, z, u, v)
		}
	}

	indices := make([]uint32, 0, latBands*lonBands*6)
	for lat := 0; lat < latBands; lat++ {
		for lon := 0; lon < lonBands; lon++ {
			first := uint32(lat*(lonBands+1) + lon)
			second := first + uint32(lonBands) + 1
			indices = append(indices,
				first, second, first+1,
				second, second+1, first+1,
			)
		}
	}
	return verts, indices
}

// buildCylinder returns an inward-facing open cylinder for flat panoramas.
// heightRatio is source height over width; the cylinder height matches the
// unrolled circumference times that ratio, so the image maps undistorted.
func buildCylinder(radius float32, segments int, heightRatio float32) ([]float32, []uint32) {
	halfH := float32(math.Pi) * radius * heightRatio

	verts := make([]float32, 0, (segments+1)*2*vertexStride)
	for lon := 0; lon <= segments; lon++ {
		phi := float64(lon) * 2 * math.Pi / float64(segments)
		x := float32(math.Sin(phi)) * radius
		z := float32(-math.Cos(phi)) * radius
		u := float32(lon) / float32(segments)
		verts = append(verts, x, halfH, z, u, 0)
		verts = append(verts, x, -halfH, z, u, 1)
	}

	indices := make([]uint32, 0, segments*6)
	for lon := 0; lon < segments; lon++ {
		top := uint32(lon * 2)
		bottom := top + 1
		indices = append(indices,
			top, bottom, top+2,
			bottom, bottom+2, top+2,
		)
	}
	return verts, indices
}
