package mime

// EventSink receives parse events synchronously during Parser.Offer. It is
// expected to be cheap and non-blocking: the parser never suspends except
// between Offer calls, so a slow or blocking sink stalls the whole offer.
type EventSink interface {
	OnStartMessage()
	OnStartPart()
	OnHeader(name, value string)
	OnEndHeaders()
	OnContent(data []byte)
	OnEndPart()
	OnEndMessage()
}

// NopSink is an EventSink that discards every event. Embed it to implement
// only the events a caller cares about.
type NopSink struct{}

func (NopSink) OnStartMessage()             {}
func (NopSink) OnStartPart()                {}
func (NopSink) OnHeader(name, value string) {}
func (NopSink) OnEndHeaders()               {}
func (NopSink) OnContent(data []byte)       {}
func (NopSink) OnEndPart()                  {}
func (NopSink) OnEndMessage()               {}
