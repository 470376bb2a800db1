// Package session models the media-control surface: transport commands
// (play/pause/stop/next/previous) and the track metadata shown by remote
// controllers. Each noise kind is presented as one track of an endless
// five-track album, cycled with wraparound.
package session

import (
	"sync"

	"github.com/agusx1211/noisebox/internal/mixer"
	"github.com/agusx1211/noisebox/internal/noise"
)

const (
	Artist = "Noisebox"
	Album  = "Colors of Noise"
)

type Metadata struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

type Session struct {
	mu    sync.RWMutex
	mixer *mixer.Mixer
}

func New(m *mixer.Mixer) *Session {
	return &Session{mixer: m}
}

func (s *Session) Play() {
	s.mixer.SetPower(true)
}

func (s *Session) Pause() {
	s.mixer.SetPower(false)
}

func (s *Session) Stop() {
	s.mixer.SetPower(false)
}

// Next advances to the following noise kind in track order.
func (s *Session) Next() noise.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.mixer.GetKind().Next()
	s.mixer.SetKind(k)
	return k
}

// Previous steps back to the preceding noise kind in track order.
func (s *Session) Previous() noise.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.mixer.GetKind().Prev()
	s.mixer.SetKind(k)
	return k
}

// Select jumps straight to a kind, e.g. from a remote select entity.
func (s *Session) Select(k noise.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mixer.SetKind(k)
}

func (s *Session) Playing() bool {
	return s.mixer.GetPower()
}

func (s *Session) Metadata() Metadata {
	return Metadata{
		Title:  s.mixer.GetKind().Title(),
		Artist: Artist,
		Album:  Album,
	}
}
