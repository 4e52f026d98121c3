package engine

type (
	callStack struct {
		maxSize int
		size    int
		head    *frameNode
	}

	frameNode struct {
		frame StackFrame
		next  *frameNode
	}

	StackFrame struct {
		Name string
	}
)

func newCallStack(maxSize int) *callStack {
	return &callStack{
		maxSize: maxSize,
	}
}

func (s *callStack) Push(frame StackFrame) bool {
	if s.maxSize != 0 && s.size+1 > s.maxSize {
		return false
	}

	s.head = &frameNode{
		frame: frame,
		next:  s.head,
	}
	s.size++
	return true
}

func (s *callStack) Pop() (StackFrame, bool) {
	if s.head == nil {
		return StackFrame{}, false
	}
	frame := s.head.frame
	s.head = s.head.next
	s.size--
	return frame, true
}

// Unwind pops frames until only depth frames are left.
func (s *callStack) Unwind(depth int) {
	for s.size > depth {
		_, _ = s.Pop()
	}
}

func (s *callStack) Size() int {
	return s.size
}

// Slice returns the frames of the stack, innermost first.
func (s *callStack) Slice() []StackFrame {
	frames := make([]StackFrame, s.size)
	current := s.head
	i := 0
	for current != nil {
		frames[i] = current.frame
		current = current.next
		i++
	}
	return frames
}

func (f StackFrame) String() string {
	return f.Name
}
