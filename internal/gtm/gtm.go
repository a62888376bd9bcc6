// Package gtm mirrors the Google Tag Manager data layer: an append-only list
// of event maps that downstream tags consume.
package gtm

import (
	"strings"
	"sync"
)

// EventContactFormSubmit is the data layer event name pushed for every
// accepted contact form.
const EventContactFormSubmit = "ContactFormSubmit"

// DataLayer is a threadsafe append-only event list.
type DataLayer struct {
	mu      sync.Mutex
	entries []map[string]any
}

func NewDataLayer() *DataLayer {
	return &DataLayer{}
}

// Push appends one entry. The map is stored as given; callers must not
// mutate it afterwards.
func (d *DataLayer) Push(entry map[string]any) {
	d.mu.Lock()
	d.entries = append(d.entries, entry)
	d.mu.Unlock()
}

// PushFormSubmit records a contact form conversion with the phone number in
// international format.
func (d *DataLayer) PushFormSubmit(phone string) {
	d.Push(map[string]any{
		"event":     EventContactFormSubmit,
		"formPhone": FormatPhone(phone),
	})
}

// Entries returns a copy of the pushed entries, oldest first.
func (d *DataLayer) Entries() []map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]map[string]any(nil), d.entries...)
}

// FormatPhone renders a local number in +84 form. A single leading zero is
// dropped; a double-zero international prefix followed by a non-zero digit is
// kept as typed.
func FormatPhone(phone string) string {
	p := strings.TrimSpace(phone)

	keepZero := strings.HasPrefix(p, "00") && len(p) > 2 && p[2] != '0'
	if strings.HasPrefix(p, "0") && !keepZero {
		p = p[1:]
	}

	return "+84" + p
}
