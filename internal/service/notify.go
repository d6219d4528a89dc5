package service

import (
	"github.com/lalith-99/huddle/internal/models"
	"github.com/lalith-99/huddle/internal/store"
)

const tagPreviewLen = 20

// containerNotification builds a notification tied to c, with -1 in the slot
// of the other container kind.
func containerNotification(c store.Container, text string) models.Notification {
	n := models.Notification{ChannelID: -1, DMID: -1, Message: text}
	if c.Kind == models.KindDM {
		n.DMID = c.ID()
	} else {
		n.ChannelID = c.ID()
	}
	return n
}

// notifyAdded tells target they were added to a container. Caller holds the
// store lock.
func (s *Service) notifyAdded(actor *models.User, target *models.User, c store.Container) {
	n := containerNotification(c, actor.Profile.Handle+" added you to "+c.Name())
	store.PushNotification(target, n)
	s.publish([]int64{target.ID}, "notification", n)
}

// notifyTags scans body for @handle tokens and notifies every resolvable
// handle that belongs to a current member of c. A handle token is the
// maximal alphanumeric run following '@'; runs interrupted by other
// characters are not handles.
func (s *Service) notifyTags(sender *models.User, c store.Container, body string) {
	preview := body
	if r := []rune(preview); len(r) > tagPreviewLen {
		preview = string(r[:tagPreviewLen])
	}
	text := sender.Profile.Handle + " tagged you in " + c.Name() + ": " + preview

	seen := make(map[int64]bool)
	for _, handle := range tagHandles(body) {
		u := s.st.UserByHandle(handle)
		if u == nil || seen[u.ID] || !c.HasMember(u.ID) {
			continue
		}
		seen[u.ID] = true
		n := containerNotification(c, text)
		store.PushNotification(u, n)
		s.publish([]int64{u.ID}, "notification", n)
	}
}

// tagHandles extracts candidate handles from a message body: for each '@',
// the run of characters up to the next whitespace, accepted only when
// non-empty and entirely alphanumeric.
func tagHandles(body string) []string {
	var out []string
	runes := []rune(body)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '@' {
			continue
		}
		j := i + 1
		for j < len(runes) && !isSpace(runes[j]) {
			j++
		}
		candidate := runes[i+1 : j]
		if len(candidate) > 0 && allAlnum(candidate) {
			out = append(out, string(candidate))
		}
		i = j - 1
	}
	return out
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func allAlnum(runes []rune) bool {
	for _, r := range runes {
		alpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alpha {
			return false
		}
	}
	return true
}
