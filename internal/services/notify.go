package services

import (
	applog "tradehub/internal/log"
)

// Notifier simulates outbound partner notifications. Dispatch is
// fire-and-forget: a failed or slow notification must never roll back
// the order that triggered it, so delivery happens off the request
// goroutine and only ever logs.
type Notifier struct{}

func NewNotifier() *Notifier { return &Notifier{} }

func (n *Notifier) Dispatch(event string, fields map[string]any) {
	if n == nil {
		return
	}
	go func() {
		applog.Info(nil, "notify."+event, fields)
	}()
}
