package rules

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"rubika-guard/internal/models"
	"rubika-guard/internal/transport"
)

func TestIsHangMessage(t *testing.T) {
	assert := assert.New(t)

	// repeated "22." flood
	assert.True(IsHangMessage(strings.Repeat("22.", 16)))
	assert.False(IsHangMessage(strings.Repeat("22.", 7)))

	// numeric dotted flood
	assert.True(IsHangMessage(strings.Repeat("123.", 9)))
	assert.False(IsHangMessage("192.168.1.1"))

	// symbol flood
	assert.True(IsHangMessage(strings.Repeat("!@#$", 9)))
	assert.False(IsHangMessage("hello!!!"))

	// long run of short tokens; each repetition may consume a single word
	// character, so any run carrying 30+ of them is flagged
	assert.True(IsHangMessage(strings.Repeat("ha ", 31)))
	assert.True(IsHangMessage("an ordinary sentence with normal words in it"))
	assert.False(IsHangMessage("ha ha ha very funny"))

	// Persian floods count as word and digit runs, not symbol runs
	assert.True(IsHangMessage(strings.Repeat("ها ", 31)))
	assert.True(IsHangMessage(strings.Repeat("۱۲۳.", 9)))
	assert.False(IsHangMessage("سلام دوستان خوش آمدید"))

	assert.False(IsHangMessage(""))
	assert.False(IsHangMessage("a short ordinary sentence"))
}

func TestContainsLink(t *testing.T) {
	assert := assert.New(t)

	assert.True(ContainsLink("join us at rubika.ir/mygroup"))
	assert.True(ContainsLink("see https://example.com for details"))
	assert.True(ContainsLink("http://example.com"))
	assert.False(ContainsLink("no links here"))
	assert.False(ContainsLink("rubika is a nice app"))
}

func TestViolatesHygiene(t *testing.T) {
	assert := assert.New(t)

	assert.False(ViolatesHygiene("short and clean"))
	assert.False(ViolatesHygiene(strings.Repeat("ن", 1000)))
	assert.True(ViolatesHygiene(strings.Repeat("ن", 1001)))
	assert.True(ViolatesHygiene("hid​den"))
	assert.True(ViolatesHygiene("\ufefftext"))
}

func TestMediaFilterKind(t *testing.T) {
	assert := assert.New(t)

	cases := map[string]models.FilterKind{
		transport.MessageTypeGif:   models.FilterGif,
		transport.MessageTypeImage: models.FilterPhoto,
		transport.MessageTypeVoice: models.FilterVoice,
		transport.MessageTypeVideo: models.FilterVideo,
	}
	for msgType, want := range cases {
		kind, ok := MediaFilterKind(msgType)
		assert.True(ok, msgType)
		assert.Equal(want, kind)
	}

	_, ok := MediaFilterKind(transport.MessageTypeText)
	assert.False(ok)
	_, ok = MediaFilterKind(transport.MessageTypeFile)
	assert.False(ok)
}

func TestIsFilteredMedia(t *testing.T) {
	assert := assert.New(t)

	settings := models.DefaultGroupSettings()
	msg := transport.Message{Type: transport.MessageTypeGif}

	_, blocked := IsFilteredMedia(msg, settings)
	assert.False(blocked)

	settings.Filters[models.FilterGif] = true
	kind, blocked := IsFilteredMedia(msg, settings)
	assert.True(blocked)
	assert.Equal(models.FilterGif, kind)

	// text never matches a media filter regardless of flags
	_, blocked = IsFilteredMedia(transport.Message{Type: transport.MessageTypeText}, settings)
	assert.False(blocked)
}

func TestIsFilteredStory(t *testing.T) {
	assert := assert.New(t)

	settings := models.DefaultGroupSettings()
	story := transport.Message{
		Type:     transport.MessageTypeFile,
		IsStory:  true,
		FileMime: "video/mp4",
	}

	assert.False(IsFilteredStory(story, settings))

	settings.Filters[models.FilterStory] = true
	assert.True(IsFilteredStory(story, settings))

	// a story with a non-video mime is not covered by the story filter
	imageStory := story
	imageStory.FileMime = "image/png"
	assert.False(IsFilteredStory(imageStory, settings))

	// plain file attachments are not stories
	plain := story
	plain.IsStory = false
	assert.False(IsFilteredStory(plain, settings))
}

func TestIsFilteredFile(t *testing.T) {
	assert := assert.New(t)

	settings := models.DefaultGroupSettings()
	file := transport.Message{Type: transport.MessageTypeFile, FileMime: "application/pdf"}

	assert.False(IsFilteredFile(file, settings))

	settings.Filters[models.FilterOtherFiles] = true
	assert.True(IsFilteredFile(file, settings))

	// stories are handled by the story filter, never the other-files filter
	story := file
	story.IsStory = true
	assert.False(IsFilteredFile(story, settings))

	assert.False(IsFilteredFile(transport.Message{Type: transport.MessageTypeVideo}, settings))
}
