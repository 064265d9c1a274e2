package state

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/looplab/fsm"
)

// 评价提交状态常量
const (
	StateReceived     = "received"
	StateAuthorized   = "authorized"
	StateParsed       = "parsed"
	StatePosted       = "posted"
	StateUnauthorized = "unauthorized"
	StateInvalid      = "invalid"
	StateFailed       = "failed"
)

// 事件常量
const (
	EventAuthorize = "authorize"
	EventDeny      = "deny"
	EventParse     = "parse"
	EventReject    = "reject"
	EventPost      = "post"
	EventFail      = "fail"
)

// Outcome 终态对应的 HTTP 状态与消息
type Outcome struct {
	Status  int
	Message string
}

var outcomes = map[string]Outcome{
	StatePosted:       {Status: http.StatusOK},
	StateInvalid:      {Status: http.StatusBadRequest, Message: "Invalid JSON"},
	StateFailed:       {Status: http.StatusUnauthorized, Message: "Error in posting review"},
	StateUnauthorized: {Status: http.StatusForbidden, Message: "Unauthorized"},
}

// Submission 一次评价提交的生命周期
type Submission struct {
	mu           sync.Mutex
	fsm          *fsm.FSM
	onTransition func(from, to string)
}

// NewSubmission 创建提交状态机，初始状态为 received
func NewSubmission(onTransition func(from, to string)) *Submission {
	s := &Submission{onTransition: onTransition}

	s.fsm = fsm.NewFSM(
		StateReceived,
		fsm.Events{
			// 会话检查
			{Name: EventAuthorize, Src: []string{StateReceived}, Dst: StateAuthorized},
			{Name: EventDeny, Src: []string{StateReceived}, Dst: StateUnauthorized},

			// 请求体解析
			{Name: EventParse, Src: []string{StateAuthorized}, Dst: StateParsed},
			{Name: EventReject, Src: []string{StateAuthorized}, Dst: StateInvalid},

			// 上游提交
			{Name: EventPost, Src: []string{StateParsed}, Dst: StatePosted},
			{Name: EventFail, Src: []string{StateParsed}, Dst: StateFailed},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if s.onTransition != nil && e.Src != e.Dst {
					s.onTransition(e.Src, e.Dst)
				}
			},
		},
	)

	return s
}

// Trigger 触发事件
func (s *Submission) Trigger(ctx context.Context, event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}
	return nil
}

// Current 当前状态
func (s *Submission) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.Current()
}

// Outcome 返回终态对应的结果，未结束时 ok 为 false
func (s *Submission) Outcome() (Outcome, bool) {
	o, ok := outcomes[s.Current()]
	return o, ok
}
