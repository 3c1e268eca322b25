package grid

import (
	"time"
)

type NoticeKind string

const (
	NoticeLoadFailure   NoticeKind = "load_failure"
	NoticeLookupFailure NoticeKind = "lookup_failure"
	NoticeSaveFailure   NoticeKind = "save_failure"
	NoticeCreated       NoticeKind = "created"
	NoticeUpdated       NoticeKind = "updated"
	NoticeDeleted       NoticeKind = "deleted"
)

const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelDanger  = "danger"
)

const maxNotices = 50

// Notice is a message for the user that does not belong to any request
// result, like a failed lookup.
type Notice struct {
	Kind    NoticeKind `json:"kind"`
	Level   string     `json:"level"`
	Message string     `json:"message"`
	Time    time.Time  `json:"time"`
}

// addNotice must be called with the mutex held.
func (e *Engine) addNotice(kind NoticeKind, level, message string) {
	e.notices = append(e.notices, Notice{
		Kind:    kind,
		Level:   level,
		Message: message,
		Time:    time.Now().UTC(),
	})
	if len(e.notices) > maxNotices {
		e.notices = e.notices[len(e.notices)-maxNotices:]
	}
}

func (e *Engine) notify(kind NoticeKind, level, message string) {
	e.mutex.Lock()
	e.addNotice(kind, level, message)
	e.mutex.Unlock()
}

// NotifyLookupFailure records a failed related collection fetch.
func (e *Engine) NotifyLookupFailure(related string, err error) {
	e.notify(NoticeLookupFailure, LevelWarning, "Could not load "+related+": "+err.Error())
}

// Notices returns and forgets the pending notices, oldest first.
func (e *Engine) Notices() []Notice {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	notices := e.notices
	e.notices = nil
	if notices == nil {
		notices = []Notice{}
	}
	return notices
}
