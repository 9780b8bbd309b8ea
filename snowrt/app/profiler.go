package app

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gekko3d/snowman/snowrt/core"
)

// Profiler records named CPU scope durations and counters for the last frame.
type Profiler struct {
	Scopes     map[string]time.Duration
	StartTimes map[string]time.Time
	Counts     map[string]int
	Order      []string
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes:     make(map[string]time.Duration),
		StartTimes: make(map[string]time.Time),
		Counts:     make(map[string]int),
	}
}

func (p *Profiler) BeginScope(name string) {
	p.StartTimes[name] = time.Now()
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
		p.Scopes[name] = 0
	}
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.StartTimes[name]; ok {
		p.Scopes[name] = time.Since(start)
		delete(p.StartTimes, name)
	}
}

func (p *Profiler) SetCount(name string, count int) {
	p.Counts[name] = count
}

// Reset zeroes durations and counters, keeping the scope order. Scopes still
// open are dropped.
func (p *Profiler) Reset() {
	clear(p.StartTimes)
	for k := range p.Scopes {
		p.Scopes[k] = 0
	}
	for k := range p.Counts {
		p.Counts[k] = 0
	}
}

// Lines formats one entry per scope then per counter, for the HUD.
func (p *Profiler) Lines() []string {
	out := make([]string, 0, len(p.Order)+len(p.Counts))
	for _, name := range p.Order {
		ms := float64(p.Scopes[name].Microseconds()) / 1000.0
		out = append(out, fmt.Sprintf("%-10s %.2f ms", name, ms))
	}
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%-10s %d", k, p.Counts[k]))
	}
	return out
}

func (p *Profiler) String() string {
	return strings.Join(p.Lines(), "\n")
}

var profilerColor = [4]float32{0.6, 0.9, 0.6, 1}

// profilerLines places the profiler output below after.
func profilerLines(p *Profiler, after core.TextLine, lineHeight float32) []core.TextLine {
	var out []core.TextLine
	y := after.Y + lineHeight*1.5
	for _, text := range p.Lines() {
		out = append(out, core.TextLine{Text: text, X: after.X, Y: y, Color: profilerColor})
		y += lineHeight
	}
	return out
}
