package replies

import (
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

type path []string

// draftPaths are tried in order; the first object found wins.
var draftPaths = []path{
	{"result", "email"},
	{"email"},
	{"details", "orchestrator", "body", "result", "email"},
	{"proxy_result", "details", "orchestrator", "body", "result", "email"},
}

// transcriptPaths are tried in order; the first string found wins.
var transcriptPaths = []path{
	{"transcript"},
	{"text"},
	{"result", "transcript"},
	{"result", "text"},
}

// rootDraftKeys mark a reply that is itself a draft, which is how the
// drafting service answers.
var rootDraftKeys = []string{"styled_body", "body"}

// ExtractDraft returns the draft carried by reply, or nil when none of the
// known shapes match.
func ExtractDraft(reply Reply) *Draft {
	for _, p := range draftPaths {
		value, ok := reply.Lookup(p...)
		if !ok {
			continue
		}
		object, ok := asObject(value)
		if !ok {
			continue
		}
		if draft, ok := decodeDraft(object); ok {
			return draft
		}
	}
	return nil
}

// ExtractStyledDraft is ExtractDraft extended with the drafting service's
// shape, where the draft fields sit at the top level of the reply.
func ExtractStyledDraft(reply Reply) *Draft {
	if draft := ExtractDraft(reply); draft != nil {
		return draft
	}
	for _, key := range rootDraftKeys {
		if _, ok := reply[key]; ok {
			if draft, ok := decodeDraft(reply); ok {
				return draft
			}
			return nil
		}
	}
	return nil
}

// ExtractTranscript returns the transcript carried by reply, or "".
func ExtractTranscript(reply Reply) string {
	for _, p := range transcriptPaths {
		value, ok := reply.Lookup(p...)
		if !ok {
			continue
		}
		if transcript, ok := value.(string); ok {
			return strings.TrimSpace(transcript)
		}
	}
	return ""
}

func decodeDraft(object map[string]any) (*Draft, bool) {
	var draft Draft
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &draft,
	})
	if err != nil {
		return nil, false
	}
	if err := decoder.Decode(object); err != nil {
		logger.Debug("draft-shaped value did not decode", "error", err)
		return nil, false
	}
	return &draft, true
}
