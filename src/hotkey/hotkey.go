// Package hotkey registers a global key combination (default Ctrl+Alt+M)
// through gohook and fires a callback when every key in the combination is
// held down at once.
package hotkey

import (
	"log"
	"strconv"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

// rawcodes maps normalized key names to Windows virtual-key rawcodes.
// Modifiers list both left and right variants.
var rawcodes = map[string][]uint16{
	"ctrl":  {162, 163},
	"alt":   {164, 165},
	"shift": {160, 161},
	"cmd":   {91, 92},

	"space":     {32},
	"enter":     {13},
	"esc":       {27},
	"tab":       {9},
	"backspace": {8},
	"delete":    {46},
	"insert":    {45},
	"home":      {36},
	"end":       {35},
	"pageup":    {33},
	"pagedown":  {34},
	"left":      {37},
	"up":        {38},
	"right":     {39},
	"down":      {40},
}

func init() {
	for c := byte('a'); c <= 'z'; c++ {
		rawcodes[string(c)] = []uint16{uint16(c - 'a' + 65)}
	}
	for c := byte('0'); c <= '9'; c++ {
		rawcodes[string(c)] = []uint16{uint16(c)}
	}
	for i := 1; i <= 24; i++ {
		rawcodes["f"+strconv.Itoa(i)] = []uint16{uint16(111 + i)}
	}
}

var aliases = map[string]string{
	"win": "cmd", "super": "cmd",
	"return": "enter",
	"escape": "esc",
	"del":    "delete",
	"ins":    "insert",
	"pgup":   "pageup",
	"pgdn":   "pagedown",
}

// parseHotkey converts "Ctrl+Alt+M" into normalized key names.
func parseHotkey(combo string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(combo), "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if canon, ok := aliases[part]; ok {
			part = canon
		}
		keys = append(keys, part)
	}
	return keys
}

// keyNameToRawcodes maps a normalized key name to its rawcodes, or nil when
// the name is unknown.
func keyNameToRawcodes(name string) []uint16 {
	name = strings.ToLower(strings.TrimSpace(name))
	if canon, ok := aliases[name]; ok {
		name = canon
	}
	return rawcodes[name]
}

// Listen registers combo and invokes callback each time the full combination
// is pressed. It returns immediately; the gohook event loop runs in a
// background goroutine for the life of the process.
func Listen(combo string, callback func()) {
	type keyState struct {
		name  string
		codes []uint16
		down  bool
	}

	var states []keyState
	for _, name := range parseHotkey(combo) {
		codes := keyNameToRawcodes(name)
		if len(codes) == 0 {
			log.Printf("hotkey: cannot map key %q, skipping", name)
			continue
		}
		states = append(states, keyState{name: name, codes: codes})
	}
	if len(states) == 0 {
		log.Printf("hotkey: no valid keys in %q, listener not started", combo)
		return
	}
	log.Printf("hotkey: listening for %s", combo)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: panic in listener: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("hotkey: gohook.Start returned nil channel")
			return
		}

		var mu sync.Mutex
		match := func(code uint16) int {
			for i := range states {
				for _, c := range states[i].codes {
					if c == code {
						return i
					}
				}
			}
			return -1
		}

		for ev := range evChan {
			switch ev.Kind {
			case gohook.KeyDown:
				mu.Lock()
				if i := match(ev.Rawcode); i >= 0 {
					states[i].down = true
				}
				all := true
				for i := range states {
					if !states[i].down {
						all = false
						break
					}
				}
				if all {
					for i := range states {
						states[i].down = false
					}
					mu.Unlock()
					log.Printf("hotkey: %s activated", combo)
					if callback != nil {
						callback()
					}
					continue
				}
				mu.Unlock()
			case gohook.KeyUp:
				mu.Lock()
				if i := match(ev.Rawcode); i >= 0 {
					states[i].down = false
				}
				mu.Unlock()
			}
		}
		log.Printf("hotkey: event channel closed")
	}()
}
