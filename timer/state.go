package timer

// ChannelState is one timer channel's exported counter state, for
// save-state round-tripping.
type ChannelState struct {
	Ctl            Ctl
	Data           uint16
	InitialData    uint16
	StartTime      uint64
	IsScheduled    bool
	PrescalerShift uint
}

// State is all four channels' exported state.
type State struct {
	Channels [4]ChannelState
}

// ExportState copies every channel's counter state as stored. Data is
// not synced to the scheduler's current time first, so for a running
// channel it holds the count as of its last sync; StartTime and
// IsScheduled are exported alongside it.
func (b *Bank) ExportState() State {
	var s State
	for i, ch := range b.channels {
		s.Channels[i] = ChannelState{
			Ctl: ch.ctl, Data: ch.data, InitialData: ch.initialData,
			StartTime: ch.startTime, IsScheduled: ch.isScheduled,
			PrescalerShift: ch.prescalerShift,
		}
	}
	return s
}

// ImportState restores every channel's counter state. Pending
// TimerOverflow events are restored separately by the scheduler's own
// ImportState.
func (b *Bank) ImportState(s State) {
	for i, cs := range s.Channels {
		b.channels[i] = channel{
			ctl: cs.Ctl, data: cs.Data, initialData: cs.InitialData,
			startTime: cs.StartTime, isScheduled: cs.IsScheduled,
			prescalerShift: cs.PrescalerShift,
		}
	}
}
