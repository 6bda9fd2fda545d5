package state

import (
	"errors"

	"github.com/wfunc/tictactoe/logger"
)

// State IDs of a room's game.
const (
	IDWaiting  = "waiting"
	IDActive   = "active"
	IDFinished = "finished"
)

// 状态机接口
type StateMachine interface {
	ChangeState(state State) error
	GetCurrentState() State
	AddTransition(fromID, toID string, condition func() bool) error
}

// 状态接口
type State interface {
	OnEnter()
	OnExit()
	GetID() string
	HandleMove(player Player, move Move) error
	// HandleJoin runs after player has been seated.
	HandleJoin(player Player)
	// HandleLeave runs after player has been unseated.
	HandleLeave(player Player)
}

// ErrTransitionNotAllowed is returned when a state transition is not allowed.
var ErrTransitionNotAllowed = errors.New("state transition not allowed")

// BaseStateMachine only performs registered transitions, so a state without outgoing
// transitions is terminal. It is driven from a single goroutine and holds no lock.
type BaseStateMachine struct {
	currentState State
	transitions  map[string]map[string]func() bool // fromState -> toState -> condition
}

func NewBaseStateMachine(initialState State) *BaseStateMachine {
	machine := &BaseStateMachine{
		currentState: initialState,
		transitions:  make(map[string]map[string]func() bool),
	}
	initialState.OnEnter()
	return machine
}

func (sm *BaseStateMachine) ChangeState(newState State) error {
	conditions, exists := sm.transitions[sm.currentState.GetID()]
	if !exists {
		return ErrTransitionNotAllowed
	}
	condition, exists := conditions[newState.GetID()]
	if !exists {
		return ErrTransitionNotAllowed
	}
	if condition != nil && !condition() {
		return ErrTransitionNotAllowed
	}

	sm.currentState.OnExit()
	sm.currentState = newState
	sm.currentState.OnEnter()

	return nil
}

func (sm *BaseStateMachine) GetCurrentState() State {
	return sm.currentState
}

func (sm *BaseStateMachine) AddTransition(fromID, toID string, condition func() bool) error {
	if fromID == "" || toID == "" {
		return errors.New("transition needs both state IDs")
	}
	if _, exists := sm.transitions[fromID]; !exists {
		sm.transitions[fromID] = make(map[string]func() bool)
	}

	sm.transitions[fromID][toID] = condition
	return nil
}

// 房间状态基础结构
type RoomStateBase struct {
	ID   string
	Room RoomContext
}

func (s *RoomStateBase) GetID() string {
	return s.ID
}

func (s *RoomStateBase) OnEnter() {}

func (s *RoomStateBase) OnExit() {}

func (s *RoomStateBase) HandleJoin(player Player) {}

func (s *RoomStateBase) HandleLeave(player Player) {}

// NewWaitingState creates a new waiting state.
func NewWaitingState(room RoomContext) *WaitingState {
	return &WaitingState{
		RoomStateBase: RoomStateBase{
			ID:   IDWaiting,
			Room: room,
		},
	}
}

// 等待状态: one player seated, waiting for an opponent.
type WaitingState struct {
	RoomStateBase
}

func (s *WaitingState) HandleMove(player Player, move Move) error {
	return ErrPlayAlone
}

// HandleJoin starts the game once both seats are taken.
func (s *WaitingState) HandleJoin(player Player) {
	if s.Room.SeatedCount() < 2 {
		return
	}
	if err := s.Room.ChangeState(NewActiveState(s.Room)); err != nil {
		logger.Log.Errorf("Room %s failed to start game: %v", s.Room.GetID(), err)
	}
}
