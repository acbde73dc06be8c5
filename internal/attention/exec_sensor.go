package attention

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"time"
)

// ExecSensor runs an external classifier process (the face/gaze detector
// is out of scope here) and reads one JSON object per line from its
// stdout: {"state":"engaged","confidence":0.93}. The camera device index
// is handed to the process as an opaque argument.
type ExecSensor struct {
	cmd     *exec.Cmd
	scanner *bufio.Scanner

	mu     sync.Mutex
	closed bool
}

type execSample struct {
	State      string  `json:"state"`
	Confidence float64 `json:"confidence"`
}

// NewExecSensor starts the classifier binary. Returns an error if the
// process cannot be started; the caller treats that as sensor
// unavailability, not a fatal condition.
func NewExecSensor(binary string, cameraIndex int) (*ExecSensor, error) {
	cmd := exec.Command(binary, "--camera", strconv.Itoa(cameraIndex))
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("classifier stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start classifier: %w", err)
	}
	return &ExecSensor{cmd: cmd, scanner: bufio.NewScanner(stdout)}, nil
}

func (s *ExecSensor) Read() (Reading, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return Reading{}, ErrSensorUnavailable
	}

	if !s.scanner.Scan() {
		return Reading{}, ErrSensorUnavailable
	}

	var sample execSample
	if err := json.Unmarshal(s.scanner.Bytes(), &sample); err != nil {
		// A garbled line is a low-confidence unknown, not a failure.
		return Reading{State: StateUnknown, At: time.Now()}, nil
	}

	state := State(sample.State)
	switch state {
	case StateEngaged, StateDistracted, StateAbsent, StateUnknown:
	default:
		state = StateUnknown
	}

	return Reading{State: state, Confidence: sample.Confidence, At: time.Now()}, nil
}

func (s *ExecSensor) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	return s.cmd.Wait()
}
