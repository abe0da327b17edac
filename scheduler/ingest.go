package scheduler

import "github.com/strataforge/strata-engine/ringlink"

// cmdIngester is implemented by SampleSource adapters that need to
// observe Cmd.Sample.* messages crossing the ring themselves
// (SampleCache); sample.Store doesn't implement it since in a
// single-process wiring the control side updates it directly rather
// than through RingLink.
type cmdIngester interface {
	Ingest(cmd ringlink.Cmd)
}

// Drain applies every pending Cmd from cmds to the scheduler: each
// Cmd.ScheduleVoice enqueues a ScheduledVoice, and every other Cmd kind is
// handed to the configured SampleSource if it observes the ring itself
// (spec.md §5, "cross-side communication is only through RingLink").
func (s *Scheduler) Drain(cmds *ringlink.Ring[ringlink.Cmd]) {
	for {
		cmd, ok := cmds.Recv()
		if !ok {
			return
		}
		switch cmd.Kind {
		case ringlink.CmdScheduleVoice:
			s.Schedule(ScheduledVoice{
				PlaybackID:   cmd.Voice.PlaybackID,
				StartFrame:   cmd.Voice.StartFrame,
				GateEndFrame: cmd.Voice.GateEndFrame,
				EndFrame:     cmd.Voice.EndFrame,
				RawEvent:     cmd.Voice.RawEvent,
			})
		default:
			if ingester, ok := s.samples.(cmdIngester); ok {
				ingester.Ingest(cmd)
			}
		}
	}
}
