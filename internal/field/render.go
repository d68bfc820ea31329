package field

// RenderData packs positions into an interleaved [x, y, z] * N float32 buffer
// for upload. buf is reused when it has enough capacity.
func (f *Field) RenderData(buf []float32) []float32 {
	n := f.Len()
	if cap(buf) < n*3 {
		buf = make([]float32, n*3)
	}
	buf = buf[:n*3]
	for i := 0; i < n; i++ {
		buf[i*3] = float32(f.X[i])
		buf[i*3+1] = float32(f.Y[i])
		buf[i*3+2] = float32(f.Z[i])
	}
	return buf
}
