package editor

import "time"

// NoticeDuration is how long a notice stays visible.
const NoticeDuration = 3 * time.Second

const (
	MsgInvalidValue = "Invalid value!"
	MsgBodyAdded    = "Body added!"
	MsgSaved        = "Space saved!"
	MsgLoaded       = "Space loaded!"
	MsgDeleted      = "Space deleted!"
)

// Notice is a short message shown until Until.
type Notice struct {
	Text  string
	Until time.Time
}

// Notify queues a notice that expires NoticeDuration after now.
func (s *Session) Notify(text string, now time.Time) {
	s.notices = append(s.notices, Notice{Text: text, Until: now.Add(NoticeDuration)})
}

// Notices drops expired notices and returns the live ones, oldest first.
func (s *Session) Notices(now time.Time) []Notice {
	live := s.notices[:0]
	for _, n := range s.notices {
		if now.Before(n.Until) {
			live = append(live, n)
		}
	}
	s.notices = live
	return append([]Notice(nil), live...)
}
