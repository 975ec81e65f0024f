// file: internals/helpers/notifier.go
package helper

import "log"

// Notifier memberi tahu operator soal kejadian penting (security event,
// internal error, laporan collector). Pengiriman email/Slack-nya sendiri
// adalah kolaborator eksternal; default-nya cukup ke log aplikasi.
type Notifier interface {
	Notify(message string)
}

type logNotifier struct{}

func (logNotifier) Notify(message string) {
	log.Printf("[NOTIFY] %s", message)
}

var ActiveNotifier Notifier = logNotifier{}

func Notify(message string) {
	if ActiveNotifier != nil {
		ActiveNotifier.Notify(message)
	}
}
