// Package rules holds the pure content-policy checks: stateless functions
// over message content and the current group settings. Ordering between the
// checks is owned by the dispatcher.
package rules

import (
	"regexp"
	"strings"

	"rubika-guard/internal/models"
	"rubika-guard/internal/transport"
)

// hangPatterns match text shapes that indicate junk/flood content warranting
// immediate deletion: repeated "22.", numeric floods, symbol floods, and long
// runs of short tokens. Word and digit classes are spelled out with Unicode
// properties so Persian text counts as words, not symbols.
var hangPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(22\.){15,}`),
	regexp.MustCompile(`(\p{Nd}{1,3}\.){8,}`),
	regexp.MustCompile(`([^\p{L}\p{N}_\s]{4,}){8,}`),
	regexp.MustCompile(`([\p{L}\p{N}_]{1,3}\s*){30,}`),
}

// linkMarkers are the substrings treated as links by the link policy.
var linkMarkers = []string{"rubika.ir/", "https://", "http://"}

// Characters the hygiene policy rejects: zero-width space and byte order mark.
// The BOM must stay escaped; a literal U+FEFF is only legal at the start of a
// source file.
const (
	zeroWidthSpace = '​'
	byteOrderMark  = '\ufeff'
)

// maxMessageLength is the hygiene policy's length cap in characters.
const maxMessageLength = 1000

// IsHangMessage reports whether text matches any of the hang patterns.
func IsHangMessage(text string) bool {
	for _, pattern := range hangPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// ContainsLink reports whether text contains a link per the link policy.
func ContainsLink(text string) bool {
	for _, marker := range linkMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// ViolatesHygiene reports whether text is over the length cap or carries a
// zero-width-space or byte-order-mark character.
func ViolatesHygiene(text string) bool {
	if len([]rune(text)) > maxMessageLength {
		return true
	}
	return strings.ContainsRune(text, zeroWidthSpace) || strings.ContainsRune(text, byteOrderMark)
}

// mediaFilterMap maps message kinds to the filter flag governing them.
var mediaFilterMap = map[string]models.FilterKind{
	transport.MessageTypeGif:   models.FilterGif,
	transport.MessageTypeImage: models.FilterPhoto,
	transport.MessageTypeVoice: models.FilterVoice,
	transport.MessageTypeVideo: models.FilterVideo,
}

// MediaFilterKind returns the filter kind governing a message kind, if any.
func MediaFilterKind(messageType string) (models.FilterKind, bool) {
	kind, ok := mediaFilterMap[messageType]
	return kind, ok
}

// IsFilteredMedia reports whether the message is a media kind whose filter
// flag is on in the given settings.
func IsFilteredMedia(msg transport.Message, settings models.GroupSettings) (models.FilterKind, bool) {
	kind, ok := MediaFilterKind(msg.Type)
	if !ok {
		return "", false
	}
	return kind, settings.Filters[kind]
}

// IsFilteredStory reports whether the message is a story attachment blocked
// by the story filter: a file declared as a story with a video MIME type.
func IsFilteredStory(msg transport.Message, settings models.GroupSettings) bool {
	return msg.Type == transport.MessageTypeFile &&
		msg.IsStory &&
		strings.Contains(msg.FileMime, "video") &&
		settings.Filters[models.FilterStory]
}

// IsFilteredFile reports whether the message is a non-story file blocked by
// the other-files filter.
func IsFilteredFile(msg transport.Message, settings models.GroupSettings) bool {
	return msg.Type == transport.MessageTypeFile &&
		!msg.IsStory &&
		settings.Filters[models.FilterOtherFiles]
}
