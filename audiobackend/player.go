// Package audiobackend adapts render.Renderer output onto a real audio
// device. Grounded on the teacher's audio_backend_oto.go/_alsa.go/
// _headless.go build-tag-selected backend set, generalized from the
// teacher's single mono float32 SoundChip.ReadSampleFromRing pull model
// to a stereo int16-frame Source pulled one render block at a time.
package audiobackend

// Source is anything that can render one block of stereo int16 PCM, the
// shape render.Renderer.RenderBlock already has. audiobackend depends on
// this interface rather than *render.Renderer directly so headless and
// test builds never need to construct a real scheduler/orbit graph.
type Source interface {
	// RenderBlock fills out (len(out) must be 4*BlockFrames() bytes: L/R
	// int16 little-endian interleaved) for the block starting at
	// cursorFrame.
	RenderBlock(cursorFrame int64, out []byte)
	BlockFrames() int
}

// Player is the output side every backend implements: start/stop a
// pull-driven playback loop and release device resources on Close.
type Player interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}
