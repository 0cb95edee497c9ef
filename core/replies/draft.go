package replies

import "slices"

// StatusPendingConfirmation is the only status that makes a draft actionable.
const StatusPendingConfirmation = "pending_confirmation"

// Draft is an email awaiting the operator's decision.
type Draft struct {
	Status        string   `mapstructure:"status"`
	Recipients    []string `mapstructure:"to"`
	Cc            []string `mapstructure:"cc"`
	Subject       string   `mapstructure:"subject"`
	RawBody       string   `mapstructure:"body"`
	StyledBody    string   `mapstructure:"styled_body"`
	AppliedStyles []string `mapstructure:"applied_styles"`
}

// Actionable reports whether the draft requires the operator to send, cancel
// or restyle it.
func (d *Draft) Actionable() bool {
	return d != nil && d.Status == StatusPendingConfirmation
}

// Body returns the styled body when one has been applied, else the raw body.
func (d *Draft) Body() string {
	if d == nil {
		return ""
	}
	if d.StyledBody != "" {
		return d.StyledBody
	}
	return d.RawBody
}

// WithStyle returns a copy of d carrying a new styled body. Recipients,
// subject and raw body are kept.
func (d Draft) WithStyle(styledBody string, appliedStyles []string) *Draft {
	d.Recipients = slices.Clone(d.Recipients)
	d.Cc = slices.Clone(d.Cc)
	d.StyledBody = styledBody
	d.AppliedStyles = slices.Clone(appliedStyles)
	return &d
}
