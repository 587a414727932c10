package dispatch

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"order-intake/internal/intake/model"
)

// Sessions keeps the open boards in memory, one per editing session.
type Sessions struct {
	mu     sync.RWMutex
	boards map[string]*Board
	collab Collaborators
	log    zerolog.Logger
}

func NewSessions(collab Collaborators, logger zerolog.Logger) *Sessions {
	return &Sessions{
		boards: make(map[string]*Board),
		collab: collab,
		log:    logger,
	}
}

func (s *Sessions) Open(cards []model.DispatchCard) *Board {
	b := NewBoard(cards, s.collab, s.log)
	s.mu.Lock()
	s.boards[b.ID] = b
	s.mu.Unlock()
	return b
}

func (s *Sessions) Get(id string) (*Board, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.boards[id]
	if !ok {
		return nil, fmt.Errorf("board %s: %w", id, ErrBoardNotFound)
	}
	return b, nil
}

func (s *Sessions) Close(id string) {
	s.mu.Lock()
	delete(s.boards, id)
	s.mu.Unlock()
}
