//go:build headless

package audiobackend

// HeadlessPlayer discards rendered audio; used for CI and automated
// testing where no device is available, same role as the teacher's
// headless-tagged OtoPlayer stub.
type HeadlessPlayer struct {
	source  Source
	started bool
}

func NewOtoPlayer(sampleRate int) (*HeadlessPlayer, error) {
	return &HeadlessPlayer{}, nil
}

func (hp *HeadlessPlayer) SetupPlayer(src Source) { hp.source = src }
func (hp *HeadlessPlayer) Start()                 { hp.started = true }
func (hp *HeadlessPlayer) Stop()                  { hp.started = false }
func (hp *HeadlessPlayer) Close()                 { hp.started = false }
func (hp *HeadlessPlayer) IsStarted() bool        { return hp.started }

var _ Player = (*HeadlessPlayer)(nil)
