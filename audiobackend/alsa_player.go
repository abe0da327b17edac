//go:build linux && alsa

package audiobackend

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate, unsigned int channels) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, SND_PCM_FORMAT_S16_LE);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, channels);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static int writePCM(snd_pcm_t* handle, short* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

// ALSAPlayer drives playback through ALSA directly, pulling blocks from a
// Source on its own goroutine. Adapted from the teacher's ALSAPlayer
// (same cgo shape, same EPIPE-retry write), generalized from a
// fixed-rate mono float32 push to a stereo signed-16-bit pull loop
// sized off Source.BlockFrames.
type ALSAPlayer struct {
	handle *C.snd_pcm_t

	source      Source
	cursorFrame int64
	blockBuf    []byte

	mutex   sync.Mutex
	started bool
	playing bool
	stop    chan struct{}
}

// NewALSAPlayer opens the default ALSA device for stereo 16-bit output at
// sampleRate, pulling blocks from src.
func NewALSAPlayer(sampleRate int, src Source) (*ALSAPlayer, error) {
	var cErr C.int
	handle := C.openPCM(C.CString("default"), &cErr)
	if cErr < 0 {
		return nil, fmt.Errorf("failed to open PCM device: %s", C.GoString(C.snd_strerror(cErr)))
	}
	if cErr = C.setupPCM(handle, C.uint(sampleRate), 2); cErr < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("failed to setup PCM: %s", C.GoString(C.snd_strerror(cErr)))
	}

	return &ALSAPlayer{
		handle:   handle,
		source:   src,
		blockBuf: make([]byte, 4*src.BlockFrames()),
	}, nil
}

func (ap *ALSAPlayer) write(buf []byte) error {
	frames := C.int(len(buf) / 4)
	n := C.writePCM(ap.handle, (*C.short)(unsafe.Pointer(&buf[0])), frames)
	if n < 0 {
		if n == -C.EPIPE {
			C.snd_pcm_prepare(ap.handle)
			n = C.writePCM(ap.handle, (*C.short)(unsafe.Pointer(&buf[0])), frames)
		}
		if n < 0 {
			return fmt.Errorf("write failed: %s", C.GoString(C.snd_strerror(C.int(n))))
		}
	}
	return nil
}

func (ap *ALSAPlayer) run() {
	for {
		ap.mutex.Lock()
		playing := ap.playing
		ap.mutex.Unlock()
		if !playing {
			return
		}

		ap.source.RenderBlock(ap.cursorFrame, ap.blockBuf)
		ap.cursorFrame += int64(ap.source.BlockFrames())
		if err := ap.write(ap.blockBuf); err != nil {
			return
		}

		select {
		case <-ap.stop:
			return
		default:
		}
	}
}

func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.started {
		return
	}
	ap.started = true
	ap.playing = true
	ap.stop = make(chan struct{})
	go ap.run()
}

func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.playing {
		ap.playing = false
		close(ap.stop)
		ap.started = false
	}
}

func (ap *ALSAPlayer) Close() {
	ap.Stop()
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.handle != nil {
		C.closePCM(ap.handle)
		ap.handle = nil
	}
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}

var _ Player = (*ALSAPlayer)(nil)
