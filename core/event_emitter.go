package orchestration

import "github.com/koscakluka/ema-console/core/events"

type eventEmitter func(events.Event)

func newCallbackEventEmitter(opts callbackOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.StateChanged:
			if opts.onStateChanged != nil {
				opts.onStateChanged(State(typedEvent.From), State(typedEvent.To))
			}
		case events.BusyChanged:
			if opts.onBusyChanged != nil {
				opts.onBusyChanged(typedEvent.Busy)
			}
		case events.TranscriptUpdated:
			if opts.onTranscriptUpdated != nil {
				opts.onTranscriptUpdated(typedEvent.Transcript)
			}
		case events.DraftUpdated:
			if opts.onDraftUpdated != nil {
				opts.onDraftUpdated(typedEvent.Draft)
			}
		case events.ActivityLogged:
			if opts.onActivity != nil {
				opts.onActivity(typedEvent.Entry)
			}
		}
	}
}

func (o *Orchestrator) emit(pending ...events.Event) {
	for _, event := range pending {
		for _, emitter := range o.emitters {
			emitter(event)
		}
	}
}
