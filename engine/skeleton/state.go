package skeleton

// AnimationState drives a single track of animation for one skeleton.
type AnimationState struct {
	data    *Data
	current *Animation
	loop    bool
	time    float32
}

func NewAnimationState(data *Data) *AnimationState {
	return &AnimationState{data: data}
}

// SetAnimation cuts to the named animation. Unknown names leave the state
// untouched and report false.
func (s *AnimationState) SetAnimation(name string, loop bool) bool {
	a, ok := s.data.FindAnimation(name)
	if !ok {
		return false
	}
	s.current = a
	s.loop = loop
	s.time = 0
	return true
}

// Current returns the playing animation name, or "".
func (s *AnimationState) Current() string {
	if s.current == nil {
		return ""
	}
	return s.current.Name
}

func (s *AnimationState) Time() float32 {
	return s.time
}

func (s *AnimationState) Update(dt float32) {
	if s.current == nil {
		return
	}
	s.time += dt
}

// Apply resets sk to the setup pose and poses it for the current time.
func (s *AnimationState) Apply(sk *Skeleton) {
	sk.SetToSetupPose()
	if s.current == nil {
		return
	}
	s.current.Apply(sk, s.time, s.loop)
}
