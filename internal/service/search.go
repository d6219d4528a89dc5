package service

import (
	"strings"

	"github.com/lalith-99/huddle/internal/store"
)

// Search returns every message containing the query string, case sensitive,
// across all channels and DMs the caller belongs to. An empty query matches
// everything.
func (s *Service) Search(token, query string) ([]MessageView, error) {
	s.st.Lock()
	defer s.st.Unlock()

	u, _, err := s.authorize(token)
	if err != nil {
		return nil, err
	}
	if len([]rune(query)) > maxMessageLen {
		return nil, inputError("query length must be at most %d characters", maxMessageLen)
	}

	out := []MessageView{}
	collect := func(c store.Container) {
		if !c.HasMember(u.ID) {
			return
		}
		for _, m := range *c.Messages() {
			if strings.Contains(m.Body, query) {
				out = append(out, messageView(m, u.ID))
			}
		}
	}
	for _, ch := range s.st.Channels {
		collect(store.ChannelContainer(ch))
	}
	for _, dm := range s.st.DMs {
		collect(store.DMContainer(dm))
	}
	return out, nil
}
