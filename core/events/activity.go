package events

import "github.com/koscakluka/ema-console/core/activitylog"

// KindActivityLogged identifies activity log appends.
const KindActivityLogged Kind = "activity.logged"

// ActivityLogged carries the appended entry.
type ActivityLogged struct {
	Base
	Entry activitylog.Entry
}

// NewActivityLogged creates an activity logged event.
func NewActivityLogged(entry activitylog.Entry) ActivityLogged {
	return ActivityLogged{Base: NewBase(KindActivityLogged), Entry: entry}
}
