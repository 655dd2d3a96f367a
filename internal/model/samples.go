package model

import "time"

type sample struct {
	title string
	done  bool
	due   time.Duration
	notes string
}

var samples = []sample{
	{title: "Buy milk", due: 24 * time.Hour},
	{title: "Call the dentist", due: 2 * 24 * time.Hour, notes: "Ask about the cleaning appointment"},
	{title: "Pay electricity bill", due: 3 * 24 * time.Hour},
	{title: "Return library books", done: true, due: -24 * time.Hour},
	{title: "Water the plants", due: 12 * time.Hour},
	{title: "Book flights", due: 7 * 24 * time.Hour, notes: "Window seat, morning departure"},
	{title: "Renew passport", due: 30 * 24 * time.Hour},
}

// SampleToDos returns the built-in entries a store starts with when it has
// no saved data. Order is fixed; ids are fresh on every call.
func SampleToDos(now time.Time) []ToDo {
	out := make([]ToDo, 0, len(samples))
	for _, s := range samples {
		out = append(out, New(s.title, s.done, now.Add(s.due), WithNotes(s.notes)))
	}
	return out
}

// SampleTitles lists the sample titles in order.
func SampleTitles() []string {
	out := make([]string, len(samples))
	for i, s := range samples {
		out[i] = s.title
	}
	return out
}
