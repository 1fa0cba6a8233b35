package dma

// ChannelState is one DMA channel's exported transfer state, for
// save-state round-tripping.
type ChannelState struct {
	SrcLatch, DstLatch, CountLatch uint32
	Src, Dst, Count                uint32
	Cnt                            Cnt
	Armed                          bool
}

// State is all four channels' exported state.
type State struct {
	Channels [4]ChannelState
}

// ExportState copies every channel's latched and live transfer state.
func (e *Engine) ExportState() State {
	var s State
	for i, ch := range e.channels {
		s.Channels[i] = ChannelState{
			SrcLatch: ch.srcLatch, DstLatch: ch.dstLatch, CountLatch: ch.countLatch,
			Src: ch.src, Dst: ch.dst, Count: ch.count,
			Cnt: ch.cnt, Armed: ch.armed,
		}
	}
	return s
}

// ImportState restores every channel's latched and live transfer
// state. Pending DmaActivate events are restored separately by the
// scheduler's own ImportState.
func (e *Engine) ImportState(s State) {
	for i, cs := range s.Channels {
		e.channels[i] = channel{
			srcLatch: cs.SrcLatch, dstLatch: cs.DstLatch, countLatch: cs.CountLatch,
			src: cs.Src, dst: cs.Dst, count: cs.Count,
			cnt: cs.Cnt, armed: cs.Armed,
		}
	}
}
